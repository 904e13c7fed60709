package config

import (
	"errors"
	"fmt"
	"regexp"
)

var hostnamePattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)*[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Lint reports suspicious site settings. Whether problems stop the server is
// decided by Build.IgnoreLintErrors.
func (s *Site) Lint() []error {
	var problems []error
	for _, h := range s.Images.RemoteHosts {
		if !hostnamePattern.MatchString(h) {
			problems = append(problems, fmt.Errorf("images.remote_hosts: %q is not a bare hostname", h))
		}
	}
	if n := s.Experimental.ImageUploadSize; n > 100 {
		problems = append(problems, fmt.Errorf("experimental.image_upload_max_mb: %d exceeds 100", n))
	}
	return problems
}

// Check returns the lint problems as one error unless they are ignored.
func (s *Site) Check() error {
	problems := s.Lint()
	if len(problems) == 0 || s.Build.IgnoreLintErrors {
		return nil
	}
	return errors.Join(problems...)
}

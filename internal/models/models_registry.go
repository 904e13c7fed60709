package models

// ModelTypeRegistry maps model names to every persisted model.
var ModelTypeRegistry = map[string]interface{}{
	"User":         User{},
	"AgentProfile": AgentProfile{},
	"Complex":      Complex{},
	"Property":     Property{},
	"Image":        Image{},
	"Review":       Review{},
	"Favorite":     Favorite{},
}

// All returns pointers to every persisted model, parents before children,
// in the order AutoMigrate and DropTable need.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AgentProfile{},
		&Complex{},
		&Property{},
		&Image{},
		&Review{},
		&Favorite{},
	}
}

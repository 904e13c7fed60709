package store

import (
	"context"
	"fmt"

	"estatehub/internal/models"
)

type reviewStats struct {
	AgentID     uint
	ReviewCount int
	Rating      float64
}

// Agents returns every user with the agent role as Agent read models,
// ordered by name.
func (s *Store) Agents(ctx context.Context) ([]models.Agent, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleAgent).
		Preload("AgentProfile").
		Order("name ASC, id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}
	return s.buildAgents(ctx, users)
}

// AgentByID returns one agent. Users without the agent role are not found.
func (s *Store) AgentByID(ctx context.Context, id uint) (*models.Agent, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleAgent).
		Preload("AgentProfile").
		First(&u, id).Error
	if err != nil {
		return nil, notFound(err, "agent", id)
	}

	agents, err := s.buildAgents(ctx, []models.User{u})
	if err != nil {
		return nil, err
	}
	return &agents[0], nil
}

func (s *Store) buildAgents(ctx context.Context, users []models.User) ([]models.Agent, error) {
	if len(users) == 0 {
		return []models.Agent{}, nil
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	db := s.db.WithContext(ctx)

	var listings []models.Property
	err := db.Select("id", "owner_id").
		Where("owner_id IN ?", ids).
		Order("id ASC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load agent listings: %w", err)
	}
	listingIDs := make(map[uint][]uint, len(users))
	for _, p := range listings {
		listingIDs[p.OwnerID] = append(listingIDs[p.OwnerID], p.ID)
	}

	var stats []reviewStats
	err = db.Model(&models.Review{}).
		Select("agent_id, COUNT(*) AS review_count, AVG(score) AS rating").
		Where("agent_id IN ?", ids).
		Group("agent_id").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load agent reviews: %w", err)
	}
	byAgent := make(map[uint]reviewStats, len(stats))
	for _, st := range stats {
		byAgent[st.AgentID] = st
	}

	agents := make([]models.Agent, 0, len(users))
	for _, u := range users {
		a := models.Agent{
			ID:          u.ID,
			Name:        u.Name,
			Image:       u.Image,
			Email:       u.Email,
			Phone:       u.Phone,
			CountryCode: u.CountryCode,
			ListingIDs:  listingIDs[u.ID],
			ReviewCount: byAgent[u.ID].ReviewCount,
			Rating:      byAgent[u.ID].Rating,
		}
		if a.ListingIDs == nil {
			a.ListingIDs = []uint{}
		}
		if p := u.AgentProfile; p != nil {
			a.LicenseNumber = p.LicenseNumber
			a.ExperienceYears = p.ExperienceYears
			a.Agency = p.Agency
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// AgentListings returns the published listings of an agent.
func (s *Store) AgentListings(ctx context.Context, agent *models.Agent) ([]models.Property, error) {
	if len(agent.ListingIDs) == 0 {
		return []models.Property{}, nil
	}
	var properties []models.Property
	err := s.db.WithContext(ctx).
		Scopes(scopeIDs(agent.ListingIDs), published).
		Preload("Images", imagesBySortOrder).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load listings of agent %d: %w", agent.ID, err)
	}
	return properties, nil
}

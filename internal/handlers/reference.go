// internal/handlers/reference.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/pricing"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

// ReferenceHandler serves the static pricing reference data so clients can
// build briefs without guessing which platform/content pairs are priceable.
type ReferenceHandler struct {
	model *pricing.Model
}

func NewReferenceHandler(model *pricing.Model) *ReferenceHandler {
	return &ReferenceHandler{model: model}
}

type platformInfo struct {
	Platform         models.Platform                `json:"platform"`
	Name             string                         `json:"name"`
	ContentTypes     []models.ContentType           `json:"content_types"`
	BaseRates        map[models.ContentType]float64 `json:"base_rates"`
	EngagementWeight float64                        `json:"engagement_weight"`
	FollowerWeight   float64                        `json:"follower_weight"`
}

// GET /v1/reference/platforms
func (h *ReferenceHandler) ListPlatforms(c *gin.Context) {
	platforms := make([]platformInfo, 0)
	for platform, cfg := range h.model.Platforms() {
		info := platformInfo{
			Platform:         platform,
			Name:             cfg.Name,
			BaseRates:        cfg.BaseRates,
			EngagementWeight: cfg.EngagementWeight,
			FollowerWeight:   cfg.FollowerWeight,
		}
		for contentType := range cfg.BaseRates {
			info.ContentTypes = append(info.ContentTypes, contentType)
		}
		platforms = append(platforms, info)
	}
	utils.SuccessResponse(c, gin.H{"platforms": platforms})
}

type locationInfo struct {
	Location   models.Location         `json:"location"`
	Multiplier float64                 `json:"multiplier"`
	Profile    pricing.CulturalProfile `json:"profile"`
}

// GET /v1/reference/locations
func (h *ReferenceHandler) ListLocations(c *gin.Context) {
	locations := make([]locationInfo, 0)
	for location, multiplier := range h.model.Locations() {
		locations = append(locations, locationInfo{
			Location:   location,
			Multiplier: multiplier,
			Profile:    h.model.CulturalProfile(location),
		})
	}
	utils.SuccessResponse(c, gin.H{"locations": locations})
}

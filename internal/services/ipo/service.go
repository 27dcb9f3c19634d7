package ipo

import (
	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/models"
)

// Service resolves IPO names and scores them.
type Service struct {
	catalog interfaces.IPOCatalog
	logger  *common.Logger
}

// NewService creates an IPO service over catalog.
func NewService(catalog interfaces.IPOCatalog, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{catalog: catalog, logger: logger}
}

// Lookup returns the catalog record for name.
func (s *Service) Lookup(name string) (models.IPORecord, bool) {
	return s.catalog.Find(name)
}

// Assess scores the named IPO. Names that are missing or lack scoring inputs
// yield the Unknown tier rather than an error.
func (s *Service) Assess(name string) models.RiskAssessment {
	rec, ok := s.catalog.Find(name)
	if !ok || !rec.HasFundamentals() {
		s.logger.Info().Str("ipo", name).Bool("listed", ok).Msg("No scoring data for IPO")
		return Unknown(name)
	}

	a := Score(rec)
	s.logger.Debug().
		Str("ipo", rec.Name).
		Str("tier", string(a.Tier)).
		Int("score", a.Score).
		Msg("IPO scored")
	return a
}

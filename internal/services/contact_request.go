package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/models"
)

// ErrInvalidReference means a stored request points at an unusable biodata
// id and cannot be resolved.
var ErrInvalidReference = errors.New("invalid biodata reference")

// ContactRequestService resolves contact requests against the profile they
// reference.
type ContactRequestService struct {
	db *gorm.DB
}

func NewContactRequestService(db *gorm.DB) *ContactRequestService {
	return &ContactRequestService{db: db}
}

// Approve moves a request to approved and copies the referenced profile's
// contact fields into the request as they are right now. The copy is a
// snapshot: later edits to the profile do not touch already-approved
// requests. A request referencing a missing profile fails with ErrNotFound
// and performs no write.
func (s *ContactRequestService) Approve(ctx context.Context, requestID uint) (*models.ContactRequest, error) {
	var req models.ContactRequest
	if err := s.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup contact request: %w", err)
	}
	if req.BiodataID <= 0 {
		return nil, ErrInvalidReference
	}

	var bio models.Biodata
	err := s.db.WithContext(ctx).Where("biodata_id = ?", req.BiodataID).First(&bio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup biodata %d: %w", req.BiodataID, err)
	}

	updates := map[string]any{
		"status":        models.RequestApproved,
		"mobile_number": bio.MobileNumber,
		"contact_email": bio.Email,
	}
	if err := s.db.WithContext(ctx).Model(&req).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("approve contact request: %w", err)
	}
	return &req, nil
}

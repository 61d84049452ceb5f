package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/models"
)

var (
	// ErrMissingEmail rejects a biodata payload before any store access.
	ErrMissingEmail = errors.New("email is required")
	// ErrNotFound signals a lookup miss, distinct from input errors.
	ErrNotFound = errors.New("record not found")
)

const biodataCounter = "biodata"

// Submitted keys that map onto biodata columns. Anything else (apart from
// the protected keys) is kept in the extra JSON bag so free-form form fields
// survive the round trip.
var biodataColumns = map[string]string{
	"name":                  "name",
	"biodataType":           "biodata_type",
	"profileImage":          "profile_image",
	"dateOfBirth":           "date_of_birth",
	"age":                   "age",
	"height":                "height",
	"weight":                "weight",
	"occupation":            "occupation",
	"race":                  "race",
	"fathersName":           "fathers_name",
	"mothersName":           "mothers_name",
	"permanentDivision":     "permanent_division",
	"presentDivision":       "present_division",
	"expectedPartnerAge":    "expected_partner_age",
	"expectedPartnerHeight": "expected_partner_height",
	"expectedPartnerWeight": "expected_partner_weight",
	"mobileNumber":          "mobile_number",
}

// Keys a client may submit but must never write through an update: the
// sequence id, the premium pair, and the record's own bookkeeping.
var protectedBiodataKeys = map[string]bool{
	"id":            true,
	"_id":           true,
	"email":         true,
	"biodataId":     true,
	"isPremium":     true,
	"premiumStatus": true,
	"createdAt":     true,
	"updatedAt":     true,
	"insertedId":    true,
	"extra":         true,
}

// BiodataService implements the profile upsert protocol: update-by-email
// when a profile exists, otherwise create with a freshly allocated sequence
// id.
type BiodataService struct {
	db *gorm.DB
}

func NewBiodataService(db *gorm.DB) *BiodataService { return &BiodataService{db: db} }

// UpsertResult reports which path ran and the counts the API exposes.
type UpsertResult struct {
	Created       bool
	BiodataID     int64
	InsertedID    uint
	ModifiedCount int64
}

// Upsert stores a submitted profile payload keyed by owner email.
//
// Update path: every submitted field is replaced on the existing record and
// UpdatedAt is stamped; the sequence id and premium fields are untouched no
// matter what the payload contains. Create path: the next sequence id is
// allocated atomically, IsPremium starts false, CreatedAt is stamped.
func (s *BiodataService) Upsert(ctx context.Context, payload map[string]any) (*UpsertResult, error) {
	email := stringField(payload, "email")
	if email == "" {
		return nil, ErrMissingEmail
	}

	var existing models.Biodata
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		updates, uerr := biodataUpdates(payload, existing.Extra)
		if uerr != nil {
			return nil, uerr
		}
		updates["updated_at"] = time.Now()
		res := s.db.WithContext(ctx).Model(&models.Biodata{}).Where("email = ?", email).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update biodata: %w", res.Error)
		}
		return &UpsertResult{ModifiedCount: res.RowsAffected}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, fmt.Errorf("lookup biodata: %w", err)
	}

	bio, err := biodataFromPayload(payload)
	if err != nil {
		return nil, err
	}
	bio.Email = email
	bio.IsPremium = false
	bio.PremiumStatus = models.PremiumNone
	bio.CreatedAt = time.Now()

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextSequenceID(tx, biodataCounter)
		if err != nil {
			return err
		}
		bio.BiodataID = id
		return tx.Create(bio).Error
	})
	if txErr != nil {
		return nil, fmt.Errorf("create biodata: %w", txErr)
	}
	return &UpsertResult{Created: true, BiodataID: bio.BiodataID, InsertedID: bio.ID}, nil
}

// UpdateByEmail is the PUT path: full-field update of an existing record.
func (s *BiodataService) UpdateByEmail(ctx context.Context, email string, payload map[string]any) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, ErrMissingEmail
	}
	var existing models.Biodata
	lerr := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if errors.Is(lerr, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if lerr != nil {
		return 0, fmt.Errorf("lookup biodata: %w", lerr)
	}
	updates, err := biodataUpdates(payload, existing.Extra)
	if err != nil {
		return 0, err
	}
	updates["updated_at"] = time.Now()
	res := s.db.WithContext(ctx).Model(&models.Biodata{}).Where("email = ?", email).Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("update biodata: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// nextSequenceID advances the named counter atomically and returns the new
// value. The counter row is initialized from the current maximum biodata id
// on first use, so the first profile ever gets id 1 and each later creation
// gets the prior maximum plus one. The in-place UPDATE takes a row lock, so
// two concurrent creations cannot observe the same value.
func nextSequenceID(tx *gorm.DB, name string) (int64, error) {
	var counter models.SequenceCounter
	err := tx.Where("name = ?", name).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var maxID int64
		if err := tx.Model(&models.Biodata{}).Select("COALESCE(MAX(biodata_id), 0)").Scan(&maxID).Error; err != nil {
			return 0, err
		}
		counter = models.SequenceCounter{Name: name, Value: maxID}
		if err := tx.Create(&counter).Error; err != nil {
			// lost the init race: another transaction created the row
			if ferr := tx.Where("name = ?", name).First(&counter).Error; ferr != nil {
				return 0, err
			}
		}
	} else if err != nil {
		return 0, err
	}

	res := tx.Model(&models.SequenceCounter{}).Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// biodataUpdates maps submitted JSON keys onto column updates, diverting
// unrecognized keys into the extra bag and dropping protected keys. Only
// submitted fields are replaced: the bag is merged over the record's current
// one, so a stored extra field survives updates that do not resubmit it.
func biodataUpdates(payload map[string]any, current datatypes.JSON) (map[string]any, error) {
	updates := map[string]any{}
	extra := map[string]any{}
	for key, value := range payload {
		if protectedBiodataKeys[key] {
			continue
		}
		col, known := biodataColumns[key]
		if !known {
			extra[key] = value
			continue
		}
		if key == "age" {
			updates[col] = intField(payload, "age")
			continue
		}
		if s, ok := scalarString(value); ok {
			updates[col] = s
		} else {
			// wrong shape for a fixed column; keep it in the bag instead
			extra[key] = value
		}
	}
	if len(extra) > 0 {
		merged := map[string]any{}
		if len(current) > 0 {
			if err := json.Unmarshal(current, &merged); err != nil {
				return nil, fmt.Errorf("decode stored extra fields: %w", err)
			}
		}
		for k, v := range extra {
			merged[k] = v
		}
		raw, err := json.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("encode extra fields: %w", err)
		}
		updates["extra"] = datatypes.JSON(raw)
	}
	return updates, nil
}

// biodataFromPayload builds a fresh record from the submitted payload,
// reusing the json tags on the model for the fixed fields.
func biodataFromPayload(payload map[string]any) (*models.Biodata, error) {
	known := map[string]any{}
	extra := map[string]any{}
	for key, value := range payload {
		if protectedBiodataKeys[key] {
			continue
		}
		if _, ok := biodataColumns[key]; !ok {
			extra[key] = value
			continue
		}
		if key == "age" {
			known[key] = intField(payload, "age")
			continue
		}
		if s, ok := scalarString(value); ok {
			known[key] = s
		} else {
			extra[key] = value
		}
	}
	raw, err := json.Marshal(known)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var bio models.Biodata
	if err := json.Unmarshal(raw, &bio); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if len(extra) > 0 {
		rawExtra, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("encode extra fields: %w", err)
		}
		bio.Extra = datatypes.JSON(rawExtra)
	}
	return &bio, nil
}

// scalarString renders a submitted scalar the way the fixed string columns
// store it. Forms sometimes send numbers for height or weight. Arrays and
// objects do not fit a fixed column.
func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return strings.TrimSpace(s)
}

func intField(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		_, _ = fmt.Sscanf(strings.TrimSpace(v), "%d", &n)
		return n
	default:
		return 0
	}
}

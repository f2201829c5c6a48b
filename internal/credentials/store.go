package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"merchsync/internal/errs"
	"merchsync/internal/models"
)

// Store keeps per-platform credentials encrypted at rest. "Connected"
// means credentials are on file with every required field non-empty; it is
// a precondition to attempt an upstream call, never a guarantee the
// credentials are currently valid. The store never calls upstream to check.
type Store struct {
	db     *gorm.DB
	cipher *boxCipher
}

func NewStore(db *gorm.DB, encryptionKey string) (*Store, error) {
	if encryptionKey == "" {
		return nil, &errs.ConfigurationError{Platform: "credentials", Reason: "ENCRYPTION_KEY must be set"}
	}
	cipher, err := newBoxCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential cipher: %w", err)
	}
	return &Store{db: db, cipher: cipher}, nil
}

// RequiredFields lists the fields a platform's credentials must carry to
// count as connected.
func RequiredFields(p models.Platform) []string {
	switch p {
	case models.PlatformShopify:
		return []string{"store_name", "access_token"}
	default:
		return []string{"api_key"}
	}
}

// Save validates structurally and upserts the encrypted credential row.
func (s *Store) Save(platform models.Platform, fields map[string]string) error {
	for _, f := range RequiredFields(platform) {
		if strings.TrimSpace(fields[f]) == "" {
			return &errs.ValidationError{Platform: platform.String(), Field: f}
		}
	}

	plaintext, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	cred := models.Credential{
		Platform:   platform.String(),
		Ciphertext: s.cipher.seal(plaintext),
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"ciphertext", "updated_at"}),
	}).Create(&cred).Error
}

// Resolve returns the decrypted credential fields for a platform. The
// second return is false when no credentials are on file. Raw values are
// only ever handed to connectors, never to API handlers.
func (s *Store) Resolve(platform models.Platform) (map[string]string, bool, error) {
	var cred models.Credential
	if err := s.db.First(&cred, "platform = ?", platform.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load credentials: %w", err)
	}

	plaintext, err := s.cipher.open(cred.Ciphertext)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return fields, true, nil
}

// Status reports whether a platform has usable credentials on file.
func (s *Store) Status(platform models.Platform) bool {
	fields, ok, err := s.Resolve(platform)
	if err != nil || !ok {
		return false
	}
	for _, f := range RequiredFields(platform) {
		if strings.TrimSpace(fields[f]) == "" {
			return false
		}
	}
	return true
}

// StatusAll reports connectivity for every known platform.
func (s *Store) StatusAll() map[string]bool {
	statuses := make(map[string]bool, len(models.Platforms()))
	for _, p := range models.Platforms() {
		statuses[p.String()] = s.Status(p)
	}
	return statuses
}

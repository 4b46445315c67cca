package db

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/pkg/errors"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository interface {
	PostEntry(entry *models.RewardLedgerEntry) error
	ListEntriesByUserID(userID uint, limit int) ([]models.RewardLedgerEntry, error)
	GetEntryByID(entryID uint) (*models.RewardLedgerEntry, error)
	ListPendingRedemptions(limit int) ([]models.RewardLedgerEntry, error)
	ResolveRedemption(entryID uint, newStatus string, noteSuffix string, refund bool) (*models.RewardLedgerEntry, error)
	SumDeltasByUserID(userID uint) (int, error)
}

type rewardRepo struct {
	DB *gorm.DB
}

func NewRewardRepo(db *GormDB) RewardRepository {
	return &rewardRepo{db.DB}
}

// postEntryTx is the single authoritative mutator of User.RewardPoints.
// It locks the user row so the negative-balance check holds under
// concurrent posts, appends the entry, and brings the aggregate in sync.
func postEntryTx(tx *gorm.DB, entry *models.RewardLedgerEntry) error {
	if entry.Delta == 0 {
		return apiError.New("ledger delta must be non-zero", http.StatusBadRequest)
	}

	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, entry.UserID).Error; err != nil {
		return errors.Wrap(err, "locking user for ledger post")
	}

	nextBalance := user.RewardPoints + entry.Delta
	if nextBalance < 0 {
		return apiError.ErrInsufficientBalance
	}

	if entry.Status == "" {
		entry.Status = models.EntryStatusPosted
	}
	entry.Description = truncateDescription(entry.Description)

	if err := tx.Create(entry).Error; err != nil {
		return errors.Wrap(err, "creating ledger entry")
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("reward_points", nextBalance).Error; err != nil {
		return errors.Wrap(err, "updating reward balance")
	}
	return nil
}

const maxDescriptionLength = 255

// truncateDescription fits the value into the column, backing up to a
// rune boundary so multi-byte text is never split mid-character.
func truncateDescription(value string) string {
	if value == "" {
		value = "Reward update"
	}
	if len(value) <= maxDescriptionLength {
		return value
	}
	cut := maxDescriptionLength - 3
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "..."
}

// appendDecisionNote joins the reviewer's note onto the original
// redemption description with a visible separator.
func appendDecisionNote(description, note string) string {
	if note == "" {
		return truncateDescription(description)
	}
	return truncateDescription(description + " · " + note)
}

func (r *rewardRepo) PostEntry(entry *models.RewardLedgerEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return postEntryTx(tx, entry)
	})
}

func (r *rewardRepo) ListEntriesByUserID(userID uint, limit int) ([]models.RewardLedgerEntry, error) {
	var entries []models.RewardLedgerEntry
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing ledger entries")
	}
	return entries, nil
}

func (r *rewardRepo) GetEntryByID(entryID uint) (*models.RewardLedgerEntry, error) {
	var entry models.RewardLedgerEntry
	if err := r.DB.Preload("User").First(&entry, entryID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rewardRepo) ListPendingRedemptions(limit int) ([]models.RewardLedgerEntry, error) {
	var entries []models.RewardLedgerEntry
	err := r.DB.Preload("User").
		Where("source = ? AND status = ?", models.SourceRedemption, models.EntryStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing pending redemptions")
	}
	return entries, nil
}

// ResolveRedemption settles a pending redemption. Cancellation posts a
// reversing refund entry instead of rewriting history, so the replay
// invariant on the ledger survives.
func (r *rewardRepo) ResolveRedemption(entryID uint, newStatus string, noteSuffix string, refund bool) (*models.RewardLedgerEntry, error) {
	var entry models.RewardLedgerEntry
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, entryID).Error; err != nil {
			return err
		}
		if entry.Source != models.SourceRedemption {
			return apiError.New("entry is not a redemption request", http.StatusNotFound)
		}
		if entry.Status != models.EntryStatusPending {
			return apiError.New("request already processed", http.StatusConflict)
		}

		updates := map[string]interface{}{"status": newStatus}
		if noteSuffix != "" {
			updates["description"] = appendDecisionNote(entry.Description, noteSuffix)
		}
		if err := tx.Model(&entry).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "updating redemption entry")
		}

		if refund {
			refundAmount := entry.Delta
			if refundAmount < 0 {
				refundAmount = -refundAmount
			}
			if refundAmount > 0 {
				refundEntry := &models.RewardLedgerEntry{
					UserID:      entry.UserID,
					Delta:       refundAmount,
					Source:      models.SourceRedemptionRefund,
					Description: fmt.Sprintf("Refund for request #%d", entry.ID),
					PartnerID:   entry.PartnerID,
					PartnerName: entry.PartnerName,
					Status:      models.EntryStatusPosted,
				}
				if err := postEntryTx(tx, refundEntry); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rewardRepo) SumDeltasByUserID(userID uint) (int, error) {
	var total *int
	err := r.DB.Model(&models.RewardLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("SUM(delta)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "summing ledger deltas")
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

package services

import (
	"fmt"
	"net/http"

	"github.com/techagentng/civicsafety/config"
	"github.com/techagentng/civicsafety/db"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
)

type RewardService interface {
	LedgerEntries(userID uint, limit int) ([]models.RewardLedgerEntry, error)
	Redeem(user *models.User, req *models.RedemptionRequest) (*models.RewardLedgerEntry, error)
	PendingRedemptions(actor *models.User, limit int) ([]models.RewardLedgerEntry, error)
	DecideRedemption(actor *models.User, entryID uint, decision *models.RedemptionDecision) (*models.RewardLedgerEntry, error)
	AdminAdjust(actor *models.User, req *models.AdminAdjustmentRequest) (*models.RewardLedgerEntry, error)
	TierProgress(user *models.User) models.TierProgress
	AuditBalance(actor *models.User, userID uint) (*BalanceAudit, error)
	Partners() []models.RewardPartner
}

// BalanceAudit compares a user's cached reward_points against the sum
// of their ledger deltas.
type BalanceAudit struct {
	UserID        uint `json:"user_id"`
	CachedBalance int  `json:"cached_balance"`
	LedgerBalance int  `json:"ledger_balance"`
	Consistent    bool `json:"consistent"`
}

type rewardService struct {
	Catalog    *config.Catalog
	rewardRepo db.RewardRepository
	authRepo   db.AuthRepository
}

func NewRewardService(rewardRepo db.RewardRepository, authRepo db.AuthRepository, catalog *config.Catalog) RewardService {
	return &rewardService{
		Catalog:    catalog,
		rewardRepo: rewardRepo,
		authRepo:   authRepo,
	}
}

func (s *rewardService) LedgerEntries(userID uint, limit int) ([]models.RewardLedgerEntry, error) {
	return s.rewardRepo.ListEntriesByUserID(userID, limit)
}

// Redeem posts a pending negative entry for a catalog partner. The
// balance check happens under the user row lock inside the repository,
// so concurrent redemptions cannot overdraw.
func (s *rewardService) Redeem(user *models.User, req *models.RedemptionRequest) (*models.RewardLedgerEntry, error) {
	if err := models.NormalizeStrings(req); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	partner, ok := s.Catalog.Partner(req.PartnerID)
	if !ok {
		return nil, apiError.Newf(http.StatusNotFound, "unknown reward partner %q", req.PartnerID)
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	cost := partner.PointsCost * quantity
	if cost <= 0 {
		return nil, apiError.New("redemption must cost points", http.StatusBadRequest)
	}

	description := fmt.Sprintf("Redemption: %s x%d", partner.Name, quantity)
	if req.Notes != "" {
		description = fmt.Sprintf("%s (%s)", description, req.Notes)
	}

	entry := &models.RewardLedgerEntry{
		UserID:      user.ID,
		Delta:       -cost,
		Source:      models.SourceRedemption,
		Description: description,
		PartnerID:   partner.ID,
		PartnerName: partner.Name,
		Status:      models.EntryStatusPending,
	}
	if err := s.rewardRepo.PostEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *rewardService) PendingRedemptions(actor *models.User, limit int) ([]models.RewardLedgerEntry, error) {
	if actor == nil || !models.IsRedemptionReviewerRole(actor.Role) {
		return nil, apiError.ErrForbidden
	}
	return s.rewardRepo.ListPendingRedemptions(limit)
}

// DecideRedemption fulfills or cancels a pending redemption. Cancelling
// posts a reversing refund entry instead of editing the original.
func (s *rewardService) DecideRedemption(actor *models.User, entryID uint, decision *models.RedemptionDecision) (*models.RewardLedgerEntry, error) {
	if actor == nil || !models.IsRedemptionReviewerRole(actor.Role) {
		return nil, apiError.ErrForbidden
	}
	if err := models.NormalizeStrings(decision); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	var newStatus string
	refund := false
	switch decision.Action {
	case "fulfill":
		newStatus = models.EntryStatusFulfilled
	case "cancel":
		newStatus = models.EntryStatusCancelled
		refund = true
	default:
		return nil, apiError.Newf(http.StatusBadRequest, "unsupported action %q", decision.Action)
	}

	noteSuffix := decision.Note
	if noteSuffix == "" {
		noteSuffix = fmt.Sprintf("%sed by %s", decision.Action, actor.DisplayName)
	}
	return s.rewardRepo.ResolveRedemption(entryID, newStatus, noteSuffix, refund)
}

func (s *rewardService) AdminAdjust(actor *models.User, req *models.AdminAdjustmentRequest) (*models.RewardLedgerEntry, error) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, apiError.ErrForbidden
	}
	if err := models.NormalizeStrings(req); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if req.Delta == 0 {
		return nil, apiError.New("adjustment delta cannot be zero", http.StatusBadRequest)
	}
	if _, err := s.authRepo.FindUserByID(req.UserID); err != nil {
		return nil, apiError.New("user not found", http.StatusNotFound)
	}

	entry := &models.RewardLedgerEntry{
		UserID:      req.UserID,
		Delta:       req.Delta,
		Source:      models.SourceAdminAdjustment,
		Description: req.Description,
		Status:      models.EntryStatusPosted,
	}
	if err := s.rewardRepo.PostEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *rewardService) TierProgress(user *models.User) models.TierProgress {
	return MembershipTierProgress(user.RewardPoints)
}

// AuditBalance replays the ledger for one user and reports whether the
// cached balance matches.
func (s *rewardService) AuditBalance(actor *models.User, userID uint) (*BalanceAudit, error) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil, apiError.ErrForbidden
	}
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, apiError.New("user not found", http.StatusNotFound)
	}
	ledgerSum, err := s.rewardRepo.SumDeltasByUserID(userID)
	if err != nil {
		return nil, err
	}
	return &BalanceAudit{
		UserID:        userID,
		CachedBalance: user.RewardPoints,
		LedgerBalance: ledgerSum,
		Consistent:    user.RewardPoints == ledgerSum,
	}, nil
}

func (s *rewardService) Partners() []models.RewardPartner {
	return s.Catalog.Partners
}

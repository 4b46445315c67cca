package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"gorm.io/gorm"
)

// In-memory repository fakes mirroring the database layer's locking
// semantics closely enough to exercise the services against them.

type fakeAuthRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeAuthRepo) addUser(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeAuthRepo) CreateUser(user *models.User) (*models.User, error) {
	return r.addUser(user), nil
}

func (r *fakeAuthRepo) IsEmailExist(email string) error {
	for _, user := range r.users {
		if user.Email == email {
			return apiError.New("email already exists", 409)
		}
	}
	return nil
}

func (r *fakeAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAuthRepo) FindUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeAuthRepo) UpdateUserRole(userID uint, role string) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	return nil
}

func (r *fakeAuthRepo) ListUsersByRoles(roles []string) ([]models.User, error) {
	wanted := map[string]bool{}
	for _, role := range roles {
		wanted[role] = true
	}
	var out []models.User
	for _, user := range r.users {
		if wanted[user.Role] {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeAuthRepo) GetAllUsers() ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

type fakeRewardRepo struct {
	auth    *fakeAuthRepo
	entries []*models.RewardLedgerEntry
	nextID  uint
}

func newFakeRewardRepo(auth *fakeAuthRepo) *fakeRewardRepo {
	return &fakeRewardRepo{auth: auth, nextID: 1}
}

func (r *fakeRewardRepo) PostEntry(entry *models.RewardLedgerEntry) error {
	user, ok := r.auth.users[entry.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if entry.Delta == 0 {
		return apiError.New("ledger delta cannot be zero", 400)
	}
	if user.RewardPoints+entry.Delta < 0 {
		return apiError.ErrInsufficientBalance
	}
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	user.RewardPoints += entry.Delta
	return nil
}

func (r *fakeRewardRepo) ListEntriesByUserID(userID uint, limit int) ([]models.RewardLedgerEntry, error) {
	var out []models.RewardLedgerEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeRewardRepo) GetEntryByID(entryID uint) (*models.RewardLedgerEntry, error) {
	for _, entry := range r.entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRewardRepo) ListPendingRedemptions(limit int) ([]models.RewardLedgerEntry, error) {
	var out []models.RewardLedgerEntry
	for _, entry := range r.entries {
		if entry.Source == models.SourceRedemption && entry.Status == models.EntryStatusPending {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeRewardRepo) ResolveRedemption(entryID uint, newStatus string, noteSuffix string, refund bool) (*models.RewardLedgerEntry, error) {
	entry, err := r.GetEntryByID(entryID)
	if err != nil {
		return nil, apiError.New("redemption not found", 404)
	}
	if entry.Source != models.SourceRedemption || entry.Status != models.EntryStatusPending {
		return nil, apiError.New("redemption is not pending", 409)
	}
	entry.Status = newStatus
	if noteSuffix != "" {
		entry.Description = entry.Description + " · " + noteSuffix
	}
	if refund {
		refundEntry := &models.RewardLedgerEntry{
			UserID:      entry.UserID,
			Delta:       -entry.Delta,
			Source:      models.SourceRedemptionRefund,
			Description: fmt.Sprintf("Refund for request #%d", entry.ID),
			PartnerID:   entry.PartnerID,
			PartnerName: entry.PartnerName,
			Status:      models.EntryStatusPosted,
		}
		if err := r.PostEntry(refundEntry); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (r *fakeRewardRepo) SumDeltasByUserID(userID uint) (int, error) {
	sum := 0
	for _, entry := range r.entries {
		if entry.UserID == userID {
			sum += entry.Delta
		}
	}
	return sum, nil
}

type fakeIncidentRepo struct {
	reward    *fakeRewardRepo
	incidents map[uuid.UUID]*models.Incident
	followUps []*models.IncidentFollowUp
}

func newFakeIncidentRepo(reward *fakeRewardRepo) *fakeIncidentRepo {
	return &fakeIncidentRepo{reward: reward, incidents: map[uuid.UUID]*models.Incident{}}
}

func (r *fakeIncidentRepo) CreateIncident(incident *models.Incident) error {
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	incident.CreatedAt = time.Now().UTC()
	r.incidents[incident.ID] = incident
	return nil
}

func (r *fakeIncidentRepo) GetIncidentByID(id uuid.UUID, includeHidden bool) (*models.Incident, error) {
	incident, ok := r.incidents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if incident.IsHidden && !includeHidden {
		return nil, gorm.ErrRecordNotFound
	}
	return incident, nil
}

func (r *fakeIncidentRepo) ListIncidents(filter models.IncidentFilter) ([]models.Incident, error) {
	var out []models.Incident
	for _, incident := range r.incidents {
		if incident.IsHidden && !filter.IncludeHidden {
			continue
		}
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.IncidentType != "" && incident.IncidentType != filter.IncidentType {
			continue
		}
		out = append(out, *incident)
	}
	return out, nil
}

func (r *fakeIncidentRepo) ListIncidentsByReporter(reporterID uint, limit int) ([]models.Incident, error) {
	var out []models.Incident
	for _, incident := range r.incidents {
		if incident.ReporterID != nil && *incident.ReporterID == reporterID {
			out = append(out, *incident)
		}
	}
	return out, nil
}

func (r *fakeIncidentRepo) CountIncidentsByReporter(reporterID uint, statuses []string) (int64, error) {
	wanted := map[string]bool{}
	for _, status := range statuses {
		wanted[status] = true
	}
	var count int64
	for _, incident := range r.incidents {
		if incident.ReporterID == nil || *incident.ReporterID != reporterID {
			continue
		}
		if len(statuses) > 0 && !wanted[incident.Status] {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeIncidentRepo) UpdateIncidentFields(id uuid.UUID, updates map[string]interface{}) error {
	incident, ok := r.incidents[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "category":
			incident.Category = value.(string)
		case "description":
			incident.Description = value.(string)
		case "credibility_score":
			incident.CredibilityScore = value.(float64)
		case "location_text":
			incident.LocationText = value.(string)
		}
	}
	return nil
}

func (r *fakeIncidentRepo) progressReward(incident *models.Incident, target int) error {
	if incident.ReporterID == nil || target <= incident.RewardPointsAwarded {
		return nil
	}
	delta := target - incident.RewardPointsAwarded
	entry := &models.RewardLedgerEntry{
		UserID:      *incident.ReporterID,
		Delta:       delta,
		Source:      models.SourceStatusProgress,
		Description: fmt.Sprintf("Status progress on incident %s", incident.ID),
		Status:      models.EntryStatusPosted,
	}
	if err := r.reward.PostEntry(entry); err != nil {
		return err
	}
	incident.RewardPointsAwarded = target
	return nil
}

func (r *fakeIncidentRepo) UpdateStatusAndProgress(id uuid.UUID, status string, target int) (*models.Incident, error) {
	incident, ok := r.incidents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	incident.Status = status
	if err := r.progressReward(incident, target); err != nil {
		return nil, err
	}
	return incident, nil
}

func (r *fakeIncidentRepo) ApplyFollowUp(followUp *models.IncidentFollowUp, updates map[string]interface{}, target int) error {
	incident, ok := r.incidents[followUp.IncidentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	followUp.ID = uint(len(r.followUps) + 1)
	followUp.CreatedAt = time.Now().UTC()
	r.followUps = append(r.followUps, followUp)

	for column, value := range updates {
		switch column {
		case "status":
			incident.Status = value.(string)
		case "still_happening":
			v := value.(bool)
			incident.StillHappening = &v
		case "feel_safe_now":
			v := value.(bool)
			incident.FeelSafeNow = &v
		case "contacted_authorities":
			incident.ContactedAuthorities = value.(string)
		case "safety_sentiment":
			v := value.(string)
			incident.SafetySentiment = &v
		case "follow_up_due_at":
			if value == nil {
				incident.FollowUpDueAt = nil
			} else {
				v := value.(time.Time)
				incident.FollowUpDueAt = &v
			}
		}
	}
	return r.progressReward(incident, target)
}

func (r *fakeIncidentRepo) SetHidden(id uuid.UUID, hidden bool) error {
	incident, ok := r.incidents[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	incident.IsHidden = hidden
	return nil
}

func (r *fakeIncidentRepo) MarkVerificationAlertSent(id uuid.UUID) (bool, error) {
	incident, ok := r.incidents[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if incident.VerificationAlertSent {
		return false, nil
	}
	incident.VerificationAlertSent = true
	return true, nil
}

func (r *fakeIncidentRepo) GetIncidentStats() (*models.IncidentStats, error) {
	stats := &models.IncidentStats{
		ByStatus:           map[string]int64{},
		ByType:             map[string]int64{},
		SentimentBreakdown: map[string]int64{},
	}
	for _, incident := range r.incidents {
		stats.Total++
		stats.ByStatus[incident.Status]++
		stats.ByType[incident.IncidentType]++
	}
	return stats, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotifications(notifications []models.Notification) error {
	for i := range notifications {
		n := notifications[i]
		n.ID = r.nextID
		r.nextID++
		r.notifications = append(r.notifications, &n)
	}
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(recipientID uint, statusFilter string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if statusFilter != "" && n.Status != statusFilter {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(notificationID uint, recipientID uint) (*models.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			if n.Status != models.NotificationRead {
				n.Status = models.NotificationRead
				now := time.Now().UTC()
				n.ReadAt = &now
			}
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) CountUnread(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && n.Status == models.NotificationUnread {
			count++
		}
	}
	return count, nil
}

type fakeRoleRequestRepo struct {
	auth     *fakeAuthRepo
	requests []*models.RoleRequest
	nextID   uint
}

func newFakeRoleRequestRepo(auth *fakeAuthRepo) *fakeRoleRequestRepo {
	return &fakeRoleRequestRepo{auth: auth, nextID: 1}
}

func (r *fakeRoleRequestRepo) QueuePendingRequest(userID uint, role string, justification string) (*models.RoleRequest, error) {
	for _, req := range r.requests {
		if req.UserID == userID && req.Status == models.RoleRequestPending {
			req.RequestedRole = role
			req.Justification = justification
			req.ReviewerID = nil
			req.ReviewerNotes = ""
			req.DecidedAt = nil
			return req, nil
		}
	}
	req := &models.RoleRequest{
		UserID:        userID,
		RequestedRole: role,
		Status:        models.RoleRequestPending,
		Justification: justification,
	}
	req.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, req)
	return req, nil
}

func (r *fakeRoleRequestRepo) GetRequestByID(id uint) (*models.RoleRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRequestRepo) ListRequests(statusFilter string, limit int) ([]models.RoleRequest, error) {
	var out []models.RoleRequest
	for _, req := range r.requests {
		if statusFilter != "" && req.Status != statusFilter {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeRoleRequestRepo) ResolveRequest(requestID uint, status string, reviewerID uint, notes string, assignRole string) (*models.RoleRequest, error) {
	req, err := r.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RoleRequestPending {
		return nil, apiError.New("role request already decided", 409)
	}
	req.Status = status
	req.ReviewerID = &reviewerID
	req.ReviewerNotes = notes
	now := time.Now().UTC()
	req.DecidedAt = &now
	if assignRole != "" {
		if err := r.auth.UpdateUserRole(req.UserID, assignRole); err != nil {
			return nil, err
		}
	}
	return req, nil
}

type fakeEngagementRepo struct {
	comments          []*models.IncidentComment
	incidentReactions map[string]string
	commentReactions  map[string]string
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{
		incidentReactions: map[string]string{},
		commentReactions:  map[string]string{},
	}
}

func incidentReactionKey(incidentID uuid.UUID, userID uint) string {
	return fmt.Sprintf("%s/%d", incidentID, userID)
}

func commentReactionKey(commentID uint, userID uint) string {
	return fmt.Sprintf("%d/%d", commentID, userID)
}

func (r *fakeEngagementRepo) CreateComment(comment *models.IncidentComment) error {
	comment.ID = uint(len(r.comments) + 1)
	comment.CreatedAt = time.Now().UTC()
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeEngagementRepo) ListComments(incidentID uuid.UUID, limit int) ([]models.IncidentComment, error) {
	var out []models.IncidentComment
	for _, comment := range r.comments {
		if comment.IncidentID == incidentID {
			out = append(out, *comment)
		}
	}
	return out, nil
}

func (r *fakeEngagementRepo) GetCommentByID(id uint) (*models.IncidentComment, error) {
	for _, comment := range r.comments {
		if comment.ID == id {
			return comment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEngagementRepo) SetIncidentReaction(incidentID uuid.UUID, userID uint, value string) error {
	r.incidentReactions[incidentReactionKey(incidentID, userID)] = value
	return nil
}

func (r *fakeEngagementRepo) ClearIncidentReaction(incidentID uuid.UUID, userID uint) error {
	delete(r.incidentReactions, incidentReactionKey(incidentID, userID))
	return nil
}

func (r *fakeEngagementRepo) IncidentReactionStatus(incidentID uuid.UUID, viewerID uint) (*models.ReactionStatus, error) {
	status := &models.ReactionStatus{}
	prefix := incidentID.String() + "/"
	for key, value := range r.incidentReactions {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		if value == models.ReactionLike {
			status.LikesCount++
		} else {
			status.UnlikesCount++
		}
	}
	if value, ok := r.incidentReactions[incidentReactionKey(incidentID, viewerID)]; ok {
		status.ViewerReaction = &value
	}
	return status, nil
}

func (r *fakeEngagementRepo) SetCommentReaction(commentID uint, userID uint, value string) error {
	r.commentReactions[commentReactionKey(commentID, userID)] = value
	return nil
}

func (r *fakeEngagementRepo) ClearCommentReaction(commentID uint, userID uint) error {
	delete(r.commentReactions, commentReactionKey(commentID, userID))
	return nil
}

func (r *fakeEngagementRepo) CommentReactionStatus(commentID uint, viewerID uint) (*models.ReactionStatus, error) {
	status := &models.ReactionStatus{}
	prefix := fmt.Sprintf("%d/", commentID)
	for key, value := range r.commentReactions {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		if value == models.ReactionLike {
			status.LikesCount++
		} else {
			status.UnlikesCount++
		}
	}
	if value, ok := r.commentReactions[commentReactionKey(commentID, viewerID)]; ok {
		status.ViewerReaction = &value
	}
	return status, nil
}

func (r *fakeEngagementRepo) CountLikesReceivedByReporter(reporterID uint) (int64, error) {
	return 0, nil
}

func (r *fakeEngagementRepo) CountLikesForIncident(incidentID uuid.UUID) (int64, error) {
	status, _ := r.IncidentReactionStatus(incidentID, 0)
	return status.LikesCount, nil
}

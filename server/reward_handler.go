package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/civicsafety/errors"
	"github.com/techagentng/civicsafety/models"
	"github.com/techagentng/civicsafety/server/response"
)

func uintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apiError.Newf(http.StatusBadRequest, "invalid %s", name)
	}
	return uint(value), nil
}

func (s *Server) handleGetLedger() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		entries, err := s.RewardService.LedgerEntries(user.ID, queryLimit(c, 50))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "ledger retrieved successfully", http.StatusOK, entries, nil)
	}
}

func (s *Server) handleGetRewardSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := s.UserService.GetRewardSummary(currentUser(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "reward summary retrieved successfully", http.StatusOK, summary, nil)
	}
}

func (s *Server) handleRedeem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var redemptionRequest models.RedemptionRequest
		if err := decode(c, &redemptionRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		entry, err := s.RewardService.Redeem(currentUser(c), &redemptionRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "redemption submitted for review", http.StatusCreated, entry, nil)
	}
}

func (s *Server) handleListPendingRedemptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := s.RewardService.PendingRedemptions(currentUser(c), queryLimit(c, 50))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "pending redemptions retrieved successfully", http.StatusOK, entries, nil)
	}
}

func (s *Server) handleDecideRedemption() gin.HandlerFunc {
	return func(c *gin.Context) {
		entryID, err := uintParam(c, "id")
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var decision models.RedemptionDecision
		if err := decode(c, &decision); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		entry, err := s.RewardService.DecideRedemption(currentUser(c), entryID, &decision)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "redemption "+entry.Status, http.StatusOK, entry, nil)
	}
}

func (s *Server) handleAdminAdjust() gin.HandlerFunc {
	return func(c *gin.Context) {
		var adjustment models.AdminAdjustmentRequest
		if err := decode(c, &adjustment); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, err)
			return
		}

		entry, err := s.RewardService.AdminAdjust(currentUser(c), &adjustment)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "adjustment posted successfully", http.StatusCreated, entry, nil)
	}
}

func (s *Server) handleAuditBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uintParam(c, "userID")
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		audit, err := s.RewardService.AuditBalance(currentUser(c), userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "balance audit completed", http.StatusOK, audit, nil)
	}
}

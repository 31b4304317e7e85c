package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/middleware"
	"spin-raffle-backend/internal/features/raffle/models"
	raffleservice "spin-raffle-backend/internal/features/raffle/service"
)

// maxImportSize bounds the CSV body accepted by the import endpoint.
const maxImportSize = 5 << 20

type RaffleHandler struct {
	service    raffleservice.RaffleService
	adminToken string
}

func NewRaffleHandler(service raffleservice.RaffleService, adminToken string) *RaffleHandler {
	return &RaffleHandler{
		service:    service,
		adminToken: adminToken,
	}
}

func (h *RaffleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/players", h.registerPlayer)
	router.POST("/spins", h.recordSpin)
	router.GET("/prizes", h.getPrizes)
	router.GET("/history", h.getSpinHistory)

	winners := router.Group("/winners")
	{
		winners.GET("", h.getPastWinners)
		winners.GET("/all", h.getAllWinners)
	}

	campaigns := router.Group("/campaigns")
	{
		campaigns.GET("/active", h.getActiveCampaign)
		campaigns.GET("/stats", h.getCampaignStats)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/login", h.login)
		admin.POST("/logout", h.logout)
		admin.GET("/session", h.session)

		protected := admin.Group("", middleware.RequireAdmin(h.adminToken))
		{
			protected.POST("/campaigns/activate", h.activateCampaign)
			protected.POST("/campaigns/deactivate", h.deactivateCampaign)
			protected.POST("/campaigns/:id/draw", h.drawWinner)
			protected.POST("/emergency-draw", h.emergencyDraw)

			protected.DELETE("/participants", h.clearParticipants)
			protected.DELETE("/participants/:id", h.deleteParticipant)
			protected.POST("/participants/test", h.generateTestParticipants)
			protected.GET("/participants/export", h.exportParticipants)
			protected.POST("/participants/import", h.importParticipants)
		}
	}
}

// DataResponse wraps successful payloads that carry no status of their own.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type SessionResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

type DeactivateRequest struct {
	Clear bool `json:"clear"`
}

type ImportRequest struct {
	CSV string `json:"csv"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, DataResponse{Success: true, Data: data})
}

// @Summary Register a player
// @Description Registers a visitor by name and phone for the current campaign
// @Tags players
// @Accept json
// @Produce json
// @Param input body models.RegisterPlayerRequest true "Player data"
// @Success 201 {object} DataResponse{data=models.Player}
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 409 {object} middleware.ErrorResponse "Phone already participated"
// @Router /players [post]
func (h *RaffleHandler) registerPlayer(c *gin.Context) {
	var req models.RegisterPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", "Dados inválidos."))
		return
	}
	req.IPAddress = middleware.ClientIP(c)
	req.UserAgent = middleware.UserAgent(c)

	player, err := h.service.RegisterPlayer(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, player)
}

// @Summary Record a spin
// @Description Records the wheel spin of a player in the active campaign
// @Tags spins
// @Accept json
// @Produce json
// @Param input body models.RecordSpinRequest true "Spin data"
// @Success 201 {object} models.SpinResult
// @Failure 400 {object} middleware.ErrorResponse "Invalid player or prize"
// @Failure 404 {object} middleware.ErrorResponse "No active campaign"
// @Failure 409 {object} middleware.ErrorResponse "Already spun"
// @Router /spins [post]
func (h *RaffleHandler) recordSpin(c *gin.Context) {
	var req models.RecordSpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", "Dados inválidos."))
		return
	}
	req.IPAddress = middleware.ClientIP(c)
	req.UserAgent = middleware.UserAgent(c)

	result, err := h.service.RecordSpin(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// @Summary List prizes
// @Description Returns the active wheel prizes ordered by probability
// @Tags prizes
// @Produce json
// @Success 200 {object} DataResponse{data=[]models.Prize}
// @Router /prizes [get]
func (h *RaffleHandler) getPrizes(c *gin.Context) {
	prizes, err := h.service.GetPrizes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, prizes)
}

// @Summary Current campaign participants
// @Tags campaigns
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.HistoryPage
// @Router /history [get]
func (h *RaffleHandler) getSpinHistory(c *gin.Context) {
	limit, offset := pagination(c)
	page, err := h.service.GetSpinHistory(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Winners gallery
// @Tags winners
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.PastWinnersPage
// @Router /winners [get]
func (h *RaffleHandler) getPastWinners(c *gin.Context) {
	limit, offset := pagination(c)
	page, err := h.service.GetPastWinners(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Winner of every campaign
// @Tags winners
// @Produce json
// @Success 200 {object} DataResponse{data=[]models.CampaignWinner}
// @Router /winners/all [get]
func (h *RaffleHandler) getAllWinners(c *gin.Context) {
	winners, err := h.service.GetAllWinners(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, winners)
}

// @Summary Active campaign
// @Tags campaigns
// @Produce json
// @Success 200 {object} DataResponse{data=models.Campaign}
// @Failure 404 {object} middleware.ErrorResponse "No active campaign"
// @Failure 410 {object} middleware.ErrorResponse "Campaign expired"
// @Router /campaigns/active [get]
func (h *RaffleHandler) getActiveCampaign(c *gin.Context) {
	campaign, err := h.service.GetActiveCampaign(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, campaign)
}

// @Summary Latest campaign statistics
// @Tags campaigns
// @Produce json
// @Success 200 {object} DataResponse{data=models.CampaignStats}
// @Router /campaigns/stats [get]
func (h *RaffleHandler) getCampaignStats(c *gin.Context) {
	stats, err := h.service.GetCampaignStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param input body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (h *RaffleHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", "Dados inválidos."))
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Success: true, Token: token})
}

// @Summary Admin logout
// @Description The session token is static; logging out only tells the client to drop it
// @Tags admin
// @Produce json
// @Success 200 {object} models.MessageResult
// @Router /admin/logout [post]
func (h *RaffleHandler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResult{Success: true, Message: "Sessão encerrada"})
}

// @Summary Admin session check
// @Tags admin
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /admin/session [get]
func (h *RaffleHandler) session(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{IsAuthenticated: h.service.CheckSession(middleware.BearerToken(c))})
}

// @Summary Start a new campaign
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 201 {object} DataResponse{data=models.Campaign}
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /admin/campaigns/activate [post]
func (h *RaffleHandler) activateCampaign(c *gin.Context) {
	campaign, err := h.service.ActivateCampaign(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, campaign)
}

// @Summary Close the active campaign
// @Description With clear=true every player and spin of the tenant is removed as well
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param clear query bool false "Remove all participants"
// @Param input body DeactivateRequest false "Options"
// @Success 200 {object} models.DeactivateResult
// @Failure 404 {object} middleware.ErrorResponse "No active campaign"
// @Router /admin/campaigns/deactivate [post]
func (h *RaffleHandler) deactivateCampaign(c *gin.Context) {
	var req DeactivateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperrors.NewValidationError("body", "Dados inválidos."))
			return
		}
	}
	if v, ok := c.GetQuery("clear"); ok {
		req.Clear, _ = strconv.ParseBool(v)
	}

	result, err := h.service.DeactivateCampaign(c.Request.Context(), req.Clear)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Draw the campaign winner
// @Description Picks one eligible player at random; returns the stored winner when already drawn
// @Tags admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.DrawResult
// @Failure 404 {object} middleware.ErrorResponse "Campaign not found"
// @Failure 422 {object} middleware.ErrorResponse "No eligible players"
// @Router /admin/campaigns/{id}/draw [post]
func (h *RaffleHandler) drawWinner(c *gin.Context) {
	result, err := h.service.DrawWinner(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Emergency draw
// @Description Draws among the latest registrations and overwrites the latest campaign winner
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 200 {object} models.DrawResult
// @Failure 422 {object} middleware.ErrorResponse "No eligible players"
// @Router /admin/emergency-draw [post]
func (h *RaffleHandler) emergencyDraw(c *gin.Context) {
	result, err := h.service.EmergencyDraw(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Remove every participant
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 200 {object} models.MessageResult
// @Router /admin/participants [delete]
func (h *RaffleHandler) clearParticipants(c *gin.Context) {
	result, err := h.service.ClearParticipants(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Remove one participant
// @Tags admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Player ID"
// @Success 200 {object} models.MessageResult
// @Router /admin/participants/{id} [delete]
func (h *RaffleHandler) deleteParticipant(c *gin.Context) {
	result, err := h.service.DeleteParticipant(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Generate test participants
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 201 {object} models.MessageResult
// @Router /admin/participants/test [post]
func (h *RaffleHandler) generateTestParticipants(c *gin.Context) {
	result, err := h.service.GenerateTestParticipants(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// @Summary Export participants as CSV
// @Description Returns a CSV attachment, or JSON when format=json
// @Tags admin
// @Produce text/csv
// @Produce json
// @Security AdminToken
// @Param campaign_id query string false "Campaign ID, latest when omitted"
// @Param format query string false "csv or json" default(csv)
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} middleware.ErrorResponse "No participants"
// @Router /admin/participants/export [get]
func (h *RaffleHandler) exportParticipants(c *gin.Context) {
	export, err := h.service.ExportParticipantsCSV(c.Request.Context(), c.Query("campaign_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, export)
		return
	}

	filename := fmt.Sprintf("participantes-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Total-Participants", strconv.Itoa(export.TotalParticipants))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(export.CSV))
}

// @Summary Restore participants from CSV
// @Description Accepts the raw CSV body or JSON {"csv": "..."}
// @Tags admin
// @Accept text/csv
// @Accept json
// @Produce json
// @Security AdminToken
// @Success 200 {object} models.ImportResult
// @Router /admin/participants/import [post]
func (h *RaffleHandler) importParticipants(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	var data string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req ImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperrors.NewValidationError("body", "Dados inválidos."))
			return
		}
		data = req.CSV
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			_ = c.Error(apperrors.NewValidationError("body", "Arquivo CSV inválido ou muito grande."))
			return
		}
		data = string(body)
	}

	result, err := h.service.ImportParticipantsCSV(c.Request.Context(), data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/KotFed0t/invest_tracker/internal/transport/rest/middleware"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthService interface {
	Signup(ctx context.Context, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	Verify(ctx context.Context, email, code string) (model.AuthResult, error)
}

type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID uuid.UUID) (model.Portfolio, error)
	CreateHolding(ctx context.Context, userID uuid.UUID, input model.HoldingInput) (model.Holding, error)
	UpdateHolding(ctx context.Context, userID, holdingID uuid.UUID, input model.HoldingInput) (model.Holding, error)
	DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) error
	GetSettings(ctx context.Context, userID uuid.UUID) (model.Settings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, update model.SettingsUpdate) (model.Settings, error)
}

type HistoryService interface {
	GetHistory(ctx context.Context, userID uuid.UUID, period string) ([]model.HistoryPoint, error)
}

type SnapshotService interface {
	TakeSnapshots(ctx context.Context) ([]model.SnapshotRun, error)
}

type ExportService interface {
	Export(ctx context.Context, userID uuid.UUID, period string) (link string, err error)
}

type CookieSettings struct {
	MaxAge time.Duration
	Secure bool
}

type Controller struct {
	auth      AuthService
	portfolio PortfolioService
	history   HistoryService
	snapshot  SnapshotService
	export    ExportService
	cookie    CookieSettings
}

func NewController(
	auth AuthService,
	portfolio PortfolioService,
	history HistoryService,
	snapshot SnapshotService,
	export ExportService,
	cookie CookieSettings,
) *Controller {
	return &Controller{
		auth:      auth,
		portfolio: portfolio,
		history:   history,
		snapshot:  snapshot,
		export:    export,
		cookie:    cookie,
	}
}

func (ctrl *Controller) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	_, err := ctrl.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created. Please sign in to verify."})
}

func (ctrl *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	res, err := ctrl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	if res.VerificationRequired {
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent to your email", "verificationRequired": true})
		return
	}

	ctrl.setAuthCookie(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "verificationRequired": false})
}

func (ctrl *Controller) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and verification code are required"})
		return
	}

	res, err := ctrl.auth.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	ctrl.setAuthCookie(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Verification successful"})
}

func (ctrl *Controller) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", ctrl.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ctrl *Controller) GetInvestments(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	portfolio, err := ctrl.portfolio.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPortfolioResponse(portfolio))
}

func (ctrl *Controller) CreateInvestment(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Quantity.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type, asset name, and quantity are required"})
		return
	}

	holding, err := ctrl.portfolio.CreateHolding(c.Request.Context(), userID, req.toInput())
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, holding)
}

func (ctrl *Controller) UpdateInvestment(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	holdingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid investment id"})
		return
	}

	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Quantity.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type, asset name, and quantity are required"})
		return
	}

	holding, err := ctrl.portfolio.UpdateHolding(c.Request.Context(), userID, holdingID, req.toInput())
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, holding)
}

func (ctrl *Controller) DeleteInvestment(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	holdingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid investment id"})
		return
	}

	if err := ctrl.portfolio.DeleteHolding(c.Request.Context(), userID, holdingID); err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Investment deleted successfully"})
}

func (ctrl *Controller) GetHistory(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	period := c.DefaultQuery("period", string(model.DefaultPeriod))
	groupBy := c.DefaultQuery("groupBy", "day")
	if groupBy != "day" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only daily grouping is supported"})
		return
	}

	points, err := ctrl.history.GetHistory(c.Request.Context(), userID, period)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, historyResponse{Data: points, Period: strings.ToLower(period), GroupBy: groupBy})
}

func (ctrl *Controller) Export(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	link, err := ctrl.export.Export(c.Request.Context(), userID, c.Query("period"))
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (ctrl *Controller) GetSettings(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	settings, err := ctrl.portfolio.GetSettings(c.Request.Context(), userID)
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (ctrl *Controller) UpdateSettings(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings"})
		return
	}

	settings, err := ctrl.portfolio.UpdateSettings(c.Request.Context(), userID, model.SettingsUpdate{
		BaseCurrency: req.BaseCurrency,
		DarkMode:     req.DarkMode,
	})
	if err != nil {
		ctrl.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (ctrl *Controller) TakeSnapshot(c *gin.Context) {
	runs, err := ctrl.snapshot.TakeSnapshots(c.Request.Context())
	if err != nil && len(runs) == 0 {
		ctrl.writeError(c, err)
		return
	}

	resp := gin.H{"message": "Snapshot completed successfully", "usersProcessed": len(runs)}
	if err != nil {
		resp["message"] = "Snapshot completed with errors"
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *Controller) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

func (ctrl *Controller) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(ctrl.cookie.MaxAge.Seconds()), "/", "", ctrl.cookie.Secure, true)
}

func (ctrl *Controller) writeError(c *gin.Context, err error) {
	rqID := utils.GetRequestIDFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidPeriod):
		status, msg = http.StatusBadRequest, "Invalid period"
	case errors.Is(err, service.ErrInvalidCode):
		status, msg = http.StatusBadRequest, "Invalid verification code"
	case errors.Is(err, service.ErrVerificationExpired):
		status, msg = http.StatusBadRequest, "Verification code expired or not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrAlreadyExists):
		status, msg = http.StatusConflict, "User already exists"
	case errors.Is(err, service.ErrExportUnavailable):
		status, msg = http.StatusServiceUnavailable, "Export is not available"
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

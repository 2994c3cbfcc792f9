package session

import (
	"net/http"

	dto "github.com/Zim95/browseterm-server/internal/http/dto/session"
	httperrors "github.com/Zim95/browseterm-server/internal/http/errors"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	"github.com/Zim95/browseterm-server/internal/http/middlewares"
	"github.com/Zim95/browseterm-server/internal/http/services/account"
	"github.com/Zim95/browseterm-server/internal/http/services/auth"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// ProfileController expone el contexto de la sesión validada.
type ProfileController struct {
	subscriptions *account.SubscriptionResolver
	auth          *auth.AuthenticationService
}

// NewProfileController crea el controller.
func NewProfileController(subs *account.SubscriptionResolver, a *auth.AuthenticationService) *ProfileController {
	return &ProfileController{subscriptions: subs, auth: a}
}

// Profile maneja GET /api/profile.
func (c *ProfileController) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, sub, plan := middlewares.GetUserInfo(ctx), middlewares.GetSubscriptionInfo(ctx), middlewares.GetCurrentSubscriptionPlan(ctx)
	if user == nil || sub == nil || plan == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProfileResponse{
		UserInfo:                *user,
		SubscriptionInfo:        *sub,
		CurrentSubscriptionPlan: *plan,
	})
}

// Subscriptions maneja GET /api/subscriptions.
func (c *ProfileController) Subscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub, plan := middlewares.GetSubscriptionInfo(ctx), middlewares.GetCurrentSubscriptionPlan(ctx)
	if sub == nil || plan == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	plans, err := c.subscriptions.ListPlans(ctx)
	if err != nil {
		logger.From(ctx).Error("list plans failed",
			logger.Layer("controller"), logger.Op("ProfileController.Subscriptions"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SubscriptionsResponse{
		Plans:                   plans,
		SubscriptionInfo:        *sub,
		CurrentSubscriptionPlan: *plan,
	})
}

// Status maneja GET /api/session. El TTL se lee del store, no del contexto.
func (c *ProfileController) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middlewares.GetSessionID(ctx)
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	ttl := c.auth.SessionTTL(ctx, id)
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{
		IsValid: ttl > 0 || ttl == -1,
		TTL:     ttl,
	})
}

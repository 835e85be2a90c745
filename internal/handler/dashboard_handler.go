package handler

import (
	"net/http"
	"strings"

	"managerpanel/internal/api"
	"managerpanel/internal/middleware"
	"managerpanel/internal/service"
	"managerpanel/internal/session"
	"managerpanel/internal/view"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboards service.DashboardService
	reviews    service.ReviewService
	store      *session.Store
}

// NewDashboardHandler wires the dashboard pages and review actions.
func NewDashboardHandler(dashboards service.DashboardService, reviews service.ReviewService, store *session.Store) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, reviews: reviews, store: store}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	protected := router.Group("", middleware.RequireSession(h.store))
	{
		protected.GET("/", h.ShowDashboard)
		protected.POST("/invoices/:id/approve", h.Approve)
		protected.POST("/invoices/:id/reject", h.Reject)
		protected.POST("/invoices/:id/order-status", h.UpdateOrderStatus)
	}
}

// ShowDashboard renders the active tab: stats, invoice cards, and the detail
// modal when ?invoice= names an invoice on this tab. Every load is a fresh
// paired fetch; nothing is cached between navigations.
func (h *DashboardHandler) ShowDashboard(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	tab := view.NormalizeTab(c.Query("tab"))
	flash := session.TakeFlash(c)

	data, err := h.dashboards.Fetch(c.Request.Context(), sess.Token, tab)
	if err != nil {
		if apiErr, ok := err.(*api.Error); ok && apiErr.StatusCode == http.StatusUnauthorized {
			// The backend no longer honors this token; force a new login.
			h.store.Clear(c)
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		flash = &session.Flash{Kind: session.FlashError, Message: "Error fetching data: " + err.Error()}
		data = &service.DashboardData{}
	}

	page := view.BuildDashboard(sess.Name, tab, c.Query("invoice"), data, flash)
	c.HTML(http.StatusOK, "dashboard.html", page)
}

// ApproveForm carries the optional manager notes.
type ApproveForm struct {
	Notes string `form:"notes"`
	Tab   string `form:"tab"`
}

// Approve moves a pending invoice to approved and refetches via redirect.
func (h *DashboardHandler) Approve(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	var form ApproveForm
	_ = c.ShouldBind(&form)

	err := h.reviews.Approve(c.Request.Context(), sess.Token, c.Param("id"), form.Notes)
	if err != nil {
		session.SetFlash(c, session.FlashError, "Error: "+err.Error())
	} else {
		session.SetFlash(c, session.FlashSuccess, "Invoice approved successfully!")
	}
	h.backToTab(c, form.Tab)
}

// RejectForm carries the mandatory rejection reason.
type RejectForm struct {
	Reason string `form:"reason"`
	Tab    string `form:"tab"`
}

// Reject moves a pending invoice to rejected. A blank reason aborts before
// any backend request.
func (h *DashboardHandler) Reject(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	var form RejectForm
	_ = c.ShouldBind(&form)

	err := h.reviews.Reject(c.Request.Context(), sess.Token, c.Param("id"), form.Reason)
	if err != nil {
		session.SetFlash(c, session.FlashError, "Error: "+err.Error())
	} else {
		session.SetFlash(c, session.FlashSuccess, "Invoice rejected")
	}
	h.backToTab(c, form.Tab)
}

// OrderStatusForm carries the requested fulfilment stage and tracking fields.
type OrderStatusForm struct {
	OrderStatus  string `form:"orderStatus" binding:"required"`
	TrackingID   string `form:"trackingId"`
	CourierName  string `form:"courierName"`
	TrackingInfo string `form:"trackingInfo"`
	Tab          string `form:"tab"`
}

// UpdateOrderStatus updates fulfilment and tracking on an approved invoice.
// A commission awarded by the backend is flashed once, never stored.
func (h *DashboardHandler) UpdateOrderStatus(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	var form OrderStatusForm
	if err := c.ShouldBind(&form); err != nil {
		session.SetFlash(c, session.FlashError, "Error: order status is required")
		h.backToTab(c, form.Tab)
		return
	}

	update := api.OrderUpdate{
		OrderStatus:  form.OrderStatus,
		TrackingID:   form.TrackingID,
		CourierName:  form.CourierName,
		TrackingInfo: form.TrackingInfo,
	}
	commission, err := h.reviews.UpdateOrder(c.Request.Context(), sess.Token, c.Param("id"), update)
	if err != nil {
		session.SetFlash(c, session.FlashError, "Error: "+err.Error())
		h.backToTab(c, form.Tab)
		return
	}

	message := "Status updated: " + strings.ToUpper(form.OrderStatus)
	if commission.IsPositive() {
		message += ". Agent Commission: " + view.MoneyFixed(commission)
	}
	session.SetFlash(c, session.FlashSuccess, message)
	h.backToTab(c, form.Tab)
}

func (h *DashboardHandler) backToTab(c *gin.Context, tab string) {
	c.Redirect(http.StatusSeeOther, "/?tab="+view.NormalizeTab(tab))
}

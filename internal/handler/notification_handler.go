package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
	"github.com/NKavindya/device-mgt-core-sub000/internal/middleware"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	username := middleware.GetUsername(c)
	tenantID := middleware.GetTenantID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	params := domain.ListParams{Limit: limit, Offset: offset}

	var status *domain.ActionType
	switch c.Query("status") {
	case string(domain.ActionUnread):
		s := domain.ActionUnread
		status = &s
	case string(domain.ActionRead):
		s := domain.ActionRead
		status = &s
	}

	result, err := h.notifService.GetUserNotifications(c.Context(), tenantID, username, params, status)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": result,
	})
}

func (h *NotificationHandler) Latest(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	result, err := h.notifService.GetLatestNotifications(c.Context(), tenantID, domain.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": result,
	})
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	username := middleware.GetUsername(c)
	tenantID := middleware.GetTenantID(c)

	count, err := h.notifService.GetUnreadCount(c.Context(), tenantID, username)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

type notificationIDsRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	username := middleware.GetUsername(c)
	tenantID := middleware.GetTenantID(c)

	var req notificationIDsRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return middleware.BadRequest("Missing notification IDs")
	}

	if err := h.notifService.MarkRead(c.Context(), tenantID, username, req.IDs); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	username := middleware.GetUsername(c)
	tenantID := middleware.GetTenantID(c)

	var req notificationIDsRequest
	if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
		return middleware.BadRequest("Missing notification IDs")
	}

	if err := h.notifService.DeleteNotifications(c.Context(), tenantID, username, req.IDs); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	username := middleware.GetUsername(c)
	tenantID := middleware.GetTenantID(c)

	if err := h.notifService.DeleteAllNotifications(c.Context(), tenantID, username); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleEvent accepts a device event from the surrounding platform. A
// matching rule produces notifications; a non-matching event is accepted and
// dropped.
func (h *NotificationHandler) HandleEvent(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	var ev domain.DeviceEvent
	if err := c.BodyParser(&ev); err != nil || ev.Code == "" {
		return middleware.BadRequest("Invalid event payload")
	}
	ev.TenantID = tenantID

	if err := h.notifService.HandleEvent(c.Context(), ev); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusAccepted)
}

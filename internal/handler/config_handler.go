package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/NKavindya/device-mgt-core-sub000/internal/configstore"
	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
	"github.com/NKavindya/device-mgt-core-sub000/internal/middleware"
)

// ConfigHandler is the admin CRUD surface over the tenant's routing document.
type ConfigHandler struct {
	configs configstore.Store
}

func NewConfigHandler(configs configstore.Store) *ConfigHandler {
	return &ConfigHandler{configs: configs}
}

func (h *ConfigHandler) List(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	doc, err := h.configs.GetConfigList(c.Context(), tenantID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}

func (h *ConfigHandler) Upsert(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	var cfg domain.NotificationConfig
	if err := c.BodyParser(&cfg); err != nil || cfg.Code == "" {
		return middleware.BadRequest("Invalid notification configuration")
	}

	if err := h.configs.UpsertConfig(c.Context(), tenantID, cfg); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type defaultsRequest struct {
	DefaultArchiveType  string `json:"defaultArchiveType"`
	DefaultArchiveAfter string `json:"defaultArchiveAfter"`
}

func (h *ConfigHandler) UpdateDefaults(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	var req defaultsRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.BadRequest("Invalid archive defaults")
	}

	if err := h.configs.UpdateDefaults(c.Context(), tenantID, req.DefaultArchiveType, req.DefaultArchiveAfter); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ConfigHandler) Delete(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	configID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid configuration ID")
	}

	if err := h.configs.DeleteConfig(c.Context(), tenantID, configID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ConfigHandler) DeleteAll(c *fiber.Ctx) error {
	tenantID := middleware.GetTenantID(c)

	if err := h.configs.DeleteAll(c.Context(), tenantID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

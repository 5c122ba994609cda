package config

import (
	"college-chat/config/common"
	"college-chat/dto/res"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func NewFiber(settings *common.Settings) *fiber.App {
	return fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		AppName:       settings.AppName,
		ErrorHandler:  errorHandler,
	})
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return ctx.Status(code).JSON(res.ErrorResponse{
		Status:     utilsStatus(code),
		StatusCode: code,
		Error:      err.Error(),
	})
}

func utilsStatus(code int) string {
	if msg := fiber.NewError(code).Message; msg != "" {
		return msg
	}
	return "Error"
}

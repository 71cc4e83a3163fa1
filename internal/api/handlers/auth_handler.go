package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/tweetgenie/configs"
	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/maheshrc27/tweetgenie/pkg/utils"
)

var validate = validator.New()

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func parseAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("unable to parse request body")
	}
	return validate.Struct(out)
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req transfer.SignupRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.s.Signup(c.Context(), req); err != nil {
		return failWith(c, err, "Failed to sign up")
	}

	return c.JSON(fiber.Map{"success": true, "message": "OTP sent to your email"})
}

func (h *AuthHandler) VerifySignup(c *fiber.Ctx) error {
	var req transfer.OTPRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.s.VerifySignup(c.Context(), req.Email, req.OTP)
	if err != nil {
		return failWith(c, err, "Failed to verify OTP")
	}

	if err := h.issueSession(c, user); err != nil {
		return failWith(c, err, "Failed to create session")
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

func (h *AuthHandler) ResendSignupOTP(c *fiber.Ctx) error {
	var req transfer.EmailRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.s.ResendSignupOTP(c.Context(), req.Email); err != nil {
		return failWith(c, err, "Failed to resend OTP")
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP resent"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req transfer.EmailRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.s.ForgotPassword(c.Context(), req.Email); err != nil {
		return failWith(c, err, "Failed to start password reset")
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP sent to your email"})
}

func (h *AuthHandler) VerifyResetPassword(c *fiber.Ctx) error {
	var req transfer.OTPRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.s.VerifyResetPassword(c.Context(), req.Email, req.OTP); err != nil {
		return failWith(c, err, "Failed to verify OTP")
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP verified"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req transfer.ResetPasswordRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.s.ResetPassword(c.Context(), req.Email, req.NewPassword); err != nil {
		return failWith(c, err, "Failed to reset password")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}

func (h *AuthHandler) ResendResetOTP(c *fiber.Ctx) error {
	var req transfer.EmailRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.s.ResendResetOTP(c.Context(), req.Email); err != nil {
		return failWith(c, err, "Failed to resend OTP")
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP resent"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req transfer.LoginRequest
	if err := parseAndValidate(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.s.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return failWith(c, err, "Failed to log in")
	}

	if err := h.issueSession(c, user); err != nil {
		return failWith(c, err, "Failed to create session")
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c, h.cfg.CookieName)
	h.clearCookie(c, h.cfg.RefreshCookieName)
	return c.JSON(fiber.Map{"success": true})
}

// Refresh trades a valid refresh cookie for a new access cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cfg.RefreshCookieName)
	if refreshToken == "" {
		return fail(c, fiber.StatusUnauthorized, "Missing refresh token")
	}

	claims, err := utils.ValidateToken(h.cfg.RefreshSecretKey, refreshToken)
	if err != nil {
		h.clearCookie(c, h.cfg.RefreshCookieName)
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired refresh token")
	}

	accessToken, err := utils.GenerateToken(h.cfg.SecretKey, claims.UserID, utils.AccessTokenDuration)
	if err != nil {
		return failWith(c, err, "Failed to refresh session")
	}
	h.setCookie(c, h.cfg.CookieName, accessToken, utils.AccessTokenDuration)

	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) issueSession(c *fiber.Ctx, user *models.User) error {
	userID := fmt.Sprintf("%d", user.ID)

	accessToken, err := utils.GenerateToken(h.cfg.SecretKey, userID, utils.AccessTokenDuration)
	if err != nil {
		return err
	}
	refreshToken, err := utils.GenerateToken(h.cfg.RefreshSecretKey, userID, utils.RefreshTokenDuration)
	if err != nil {
		return err
	}

	h.setCookie(c, h.cfg.CookieName, accessToken, utils.AccessTokenDuration)
	h.setCookie(c, h.cfg.RefreshCookieName, refreshToken, utils.RefreshTokenDuration)
	return nil
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string, d time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(d),
	})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

package handler

import (
	"net/http"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	auth "github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	sessionUC  *auth.SessionUsecase
	resetUC    *auth.PasswordResetUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	sessionUC *auth.SessionUsecase,
	resetUC *auth.PasswordResetUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		sessionUC:  sessionUC,
		resetUC:    resetUC,
	}
}

// /api/register のリクエストボディ。
type registerRequest struct {
	FirstName            string `json:"first_name" form:"first_name" validate:"required,min=3"`
	LastName             string `json:"last_name" form:"last_name" validate:"required,min=3"`
	PhoneNumber          string `json:"phone_number" form:"phone_number" validate:"required,min=10,max=12"`
	Email                string `json:"email" form:"email" validate:"required,email"`
	Password             string `json:"password" form:"password" validate:"required,min=6,max=50"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 string `json:"role" form:"role"`
}

// /api/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=50"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token                string `json:"token" form:"token" validate:"required"`
	NewPassword          string `json:"new_password" form:"new_password" validate:"required,min=6,max=50"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=NewPassword"`
}

type loginResponse struct {
	Success   string `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type userResponse struct {
	User model.User `json:"user"`
}

func (h *AuthHandler) RegisterRoutes(r Routes) {
	r.API.POST("/register", h.Register)
	r.API.POST("/login", h.Login)
	r.API.POST("/forgotpassword", h.ForgotPassword)
	r.API.POST("/resetpassword", h.ResetPassword)

	//roleは問わない
	r.API.POST("/logout", h.Logout, r.Authed...)
	r.API.GET("/getuser", h.GetUser, r.Authed...)
}

// RegisterはPOST /api/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "User Successfully Registered"})
}

// LoginはPOST /api/loginのハンドラ
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success:   "Login Successful",
		Token:     out.Token.AccessToken,
		ExpiresIn: out.Token.ExpiresIn,
	})
}

// token_versionを上げて発行済みトークンを全部無効にする
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.sessionUC.Logout(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User Successfully Logged Out"})
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	u, err := h.sessionUC.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: u})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.resetUC.Forgot(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: "Reset Password Token Sent to your Email"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.resetUC.Reset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password Reset Successful"})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/auth"
	"github.com/valeriaulyamaeva/finance-tracker-api/internal/finance"
	"github.com/valeriaulyamaeva/finance-tracker-api/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register регистрирует обычного пользователя и сразу выдаёт токен.
func (h *Handler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректный формат данных. Проверьте введённые значения.", err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), in, models.RoleRegular)
	if err != nil {
		h.fail(c, err, "Ошибка регистрации")
		return
	}

	token, _, err := h.auth.Login(c.Request.Context(), user.Email, in.Password)
	if err != nil {
		h.fail(c, err, "Ошибка выдачи токена")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Пользователь успешно зарегистрирован", "token": token, "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Ошибка ввода данных", err)
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err, "Ошибка авторизации: неверный email или пароль")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Авторизация успешна", "token": token, "user": user})
}

func (h *Handler) Profile(c *gin.Context) {
	user, err := h.store.GetUserByID(c.Request.Context(), principal(c).ID)
	if err != nil {
		h.fail(c, err, "Пользователь не найден")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Ошибка при получении списка пользователей")
		return
	}
	c.JSON(http.StatusOK, users)
}

type userUpdate struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Role  *models.Role `json:"role"`
}

// UpdateUser: сам пользователь меняет имя и email, администратор ещё и роль.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in userUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Некорректный ввод", err)
		return
	}

	p := principal(c)
	ctx := c.Request.Context()
	user, err := h.store.GetUserByID(ctx, id)
	if err != nil {
		h.fail(c, err, "Пользователь не найден")
		return
	}
	if err := finance.Authorize(p, user.ID); err != nil {
		h.fail(c, err, "Нет прав на изменение пользователя")
		return
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil && p.IsAdmin() {
		if *in.Role != models.RoleAdmin && *in.Role != models.RoleRegular {
			badRequest(c, "Неизвестная роль", nil)
			return
		}
		user.Role = *in.Role
	}

	if err := h.store.UpdateUser(ctx, user); err != nil {
		h.fail(c, err, "Ошибка обновления пользователя")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Пользователь не найден")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Пользователь успешно удалён"})
}

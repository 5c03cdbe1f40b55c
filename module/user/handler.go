package user

import (
	"net/http"

	"NagarSeva/module/user/service"
	"NagarSeva/tools/errs"
	"NagarSeva/tools/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Users *service.Users
}

func NewHandler(users *service.Users) *Handler {
	return &Handler{Users: users}
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	res, err := h.Users.Signup(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	res, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListAll(c.Request.Context())
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) VerifyUser(c *gin.Context) {
	if err := h.Users.Verify(c.Request.Context(), c.Param("userId")); err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user verified"})
}

func (h *Handler) RemoveUser(c *gin.Context) {
	if err := h.Users.Remove(c.Request.Context(), c.Param("userId")); err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user removed"})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	user, err := h.Users.Create(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	users, err := h.Users.ListEmployees(c.Request.Context())
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) SearchEmployees(c *gin.Context) {
	users, err := h.Users.SearchEmployees(c.Request.Context(), c.Query("q"))
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetEmployee(c *gin.Context) {
	user, err := h.Users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, errs.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

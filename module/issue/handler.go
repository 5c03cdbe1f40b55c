package issue

import (
	"net/http"
	"time"

	issuemodel "NagarSeva/module/issue/model"
	"NagarSeva/module/issue/store"
	"NagarSeva/tools/errs"
	"NagarSeva/tools/web"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	Store *store.Store
}

func NewHandler(s *store.Store) *Handler {
	return &Handler{Store: s}
}

// GetAll GET /api/issues
func (h *Handler) GetAll(c *gin.Context) {
	issues, err := h.Store.ListAll(c.Request.Context())
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetByTicketID GET /api/issues/:ticketId
func (h *Handler) GetByTicketID(c *gin.Context) {
	issue, err := h.Store.FindByTicketID(c.Request.Context(), c.Param("ticketId"))
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, errs.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// GetStats GET /api/issues/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Store.GetStats(c.Request.Context())
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetByEmployee GET /api/issues/employee/:employeeId
func (h *Handler) GetByEmployee(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("employeeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("invalid employee id"))
		return
	}
	issues, err := h.Store.ListByAssignee(c.Request.Context(), oid)
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

type assignReq struct {
	IssueID    string `json:"issueId" binding:"required"`
	EmployeeID string `json:"employeeId"`
}

// Assign POST /api/issues/assign. An empty employeeId unassigns.
func (h *Handler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	issueID, err := primitive.ObjectIDFromHex(req.IssueID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("invalid issue id"))
		return
	}

	var employeeID *primitive.ObjectID
	if req.EmployeeID != "" {
		oid, err := primitive.ObjectIDFromHex(req.EmployeeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("invalid employee id"))
			return
		}
		employeeID = &oid
	}

	issue, err := h.Store.Assign(c.Request.Context(), issueID, employeeID)
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, errs.ErrRecordNotFound)
		return
	}
	msg := "issue assigned"
	if employeeID == nil {
		msg = "issue unassigned"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    msg,
		"issueId":    issue.ID,
		"status":     issue.Status,
		"assignedTo": issue.AssignedTo,
	})
}

type updateReq struct {
	Status         string `json:"status"`
	Urgency        string `json:"urgency"`
	Comments       string `json:"comments"`
	Department     string `json:"department"`
	Resolution     string `json:"resolution"`
	ResolutionDate string `json:"resolutionDate"`
}

// Update PATCH /api/issues/:ticketId. Only provided fields change.
func (h *Handler) Update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}

	updates := bson.M{}
	if req.Status != "" {
		updates[issuemodel.IssueFieldStatus] = req.Status
	}
	if req.Urgency != "" {
		updates[issuemodel.IssueFieldUrgency] = req.Urgency
	}
	if req.Comments != "" {
		updates[issuemodel.IssueFieldComments] = req.Comments
	}
	if req.Department != "" {
		updates[issuemodel.IssueFieldDepartment] = req.Department
	}
	if req.Resolution != "" {
		updates[issuemodel.IssueFieldResolution] = req.Resolution
	}
	if req.ResolutionDate != "" {
		t, err := time.Parse(time.RFC3339, req.ResolutionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("resolutionDate must be RFC3339"))
			return
		}
		updates[issuemodel.IssueFieldResDate] = t
	}

	issue, err := h.Store.UpdateByTicketID(c.Request.Context(), c.Param("ticketId"), updates)
	if err != nil {
		web.RespondErr(c, err)
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, errs.ErrRecordNotFound)
		return
	}
	c.JSON(http.StatusOK, issue)
}

package main

import (
	"NagarSeva/global"
	"NagarSeva/middleware"
	issuehandler "NagarSeva/module/issue"
	issuestore "NagarSeva/module/issue/store"
	mediahandler "NagarSeva/module/media"
	userhandler "NagarSeva/module/user"
	userservice "NagarSeva/module/user/service"
	webhookhandler "NagarSeva/module/webhook"
	"NagarSeva/module/webhook/flow"
	"NagarSeva/tools/security"

	"github.com/gin-gonic/gin"
)

type deps struct {
	machine *flow.Machine
	issues  *issuestore.Store
	users   *userservice.Users
	jwtOpts security.Options
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Origin())

	// chatbot webhook
	wh := webhookhandler.NewHandler(d.machine)
	r.GET("/webhook", wh.Health)
	r.POST("/webhook", wh.Incoming)

	auth := middleware.Auth(d.jwtOpts, d.users.FindByID)
	adminAuth := middleware.AdminAuth(d.jwtOpts, d.users.FindByID)

	// staff console API
	ih := issuehandler.NewHandler(d.issues)
	issues := r.Group("/api/issues", auth)
	{
		issues.GET("", ih.GetAll)
		issues.GET("/stats", ih.GetStats)
		issues.POST("/assign", ih.Assign)
		issues.GET("/employee/:employeeId", ih.GetByEmployee)
		issues.GET("/:ticketId", ih.GetByTicketID)
		issues.PATCH("/:ticketId", ih.Update)
	}

	uh := userhandler.NewHandler(d.users)
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", uh.Signup)
		authGroup.POST("/login", uh.Login)

		authGroup.GET("/users", adminAuth, uh.ListUsers)
		authGroup.POST("/verify-user/:userId", adminAuth, uh.VerifyUser)
		authGroup.DELETE("/users/:userId", adminAuth, uh.RemoveUser)
		authGroup.POST("/users", adminAuth, uh.CreateUser)

		authGroup.GET("/employees", adminAuth, uh.ListEmployees)
		authGroup.GET("/employees/search", adminAuth, uh.SearchEmployees)
		authGroup.GET("/employees/:id", adminAuth, uh.GetEmployee)
	}

	mh := mediahandler.NewHandler(global.Config.TwilioAccountSID, global.Config.TwilioAuthToken)
	r.GET("/api/media", auth, mh.Get)

	return r
}

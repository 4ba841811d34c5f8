package server

import (
	"context"
	"fmt"
	"net/http"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"github.com/emrgen/modelhub/internal/queue"
	"github.com/emrgen/modelhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gobuffalo/packr"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
)

type validator interface {
	Validate() error
}

type gateway struct {
	models   v1.ModelServiceServer
	publish  v1.PublishServiceServer
	projects v1.ProjectServiceServer
	events   *queue.Broadcaster
}

// NewGateway exposes the services as a json rest api. The event stream is
// served when events is not nil.
func NewGateway(models v1.ModelServiceServer, publish v1.PublishServiceServer, projects v1.ProjectServiceServer, events *queue.Broadcaster) *gin.Engine {
	g := &gateway{models: models, publish: publish, projects: projects, events: events}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestTimeMiddleware())

	openapiDocs := packr.NewBox("../../docs/v1")
	engine.GET("/v1/docs/*filepath", gin.WrapH(http.StripPrefix("/v1/docs/", http.FileServer(openapiDocs))))

	api := engine.Group("/v1")

	library := api.Group("/libraries/:library/models")
	library.GET("", handle(params(func(c *gin.Context, r *v1.ListModelsRequest) {
		r.Library = c.Param("library")
		r.Search = c.Query("search")
		r.Types = c.QueryArray("type")
		r.Tags = c.QueryArray("tag")
		r.RflpCategory = c.Query("rflpCategory")
	}), g.models.ListModels))
	library.GET("/:id", handle(params(func(c *gin.Context, r *v1.GetModelRequest) {
		r.Library = c.Param("library")
		r.Id = c.Param("id")
	}), g.models.GetModel))
	library.POST("", handle(body(func(c *gin.Context, r *v1.CreateModelRequest) {
		r.Library = c.Param("library")
	}), g.models.CreateModel))
	library.PATCH("/:id", handle(func(c *gin.Context, r *v1.UpdateModelRequest) error {
		r.Library = c.Param("library")
		r.Id = c.Param("id")
		r.Patch = &v1.ModelPatch{}
		return c.ShouldBindJSON(r.Patch)
	}, g.models.UpdateModel))
	library.DELETE("/:id", handle(params(func(c *gin.Context, r *v1.DeleteModelRequest) {
		r.Library = c.Param("library")
		r.Id = c.Param("id")
	}), g.models.DeleteModel))

	api.PUT("/models/:id/public", handle(body(func(c *gin.Context, r *v1.SetPublicRequest) {
		r.Id = c.Param("id")
	}), g.models.SetPublic))
	api.POST("/resync", handle[v1.ResyncRequest](nil, g.models.Resync))

	api.GET("/workflows", handle[v1.ListWorkflowsRequest](nil, g.publish.ListWorkflows))
	api.GET("/reviewers", handle[v1.ListReviewersRequest](nil, g.publish.ListReviewers))

	attempts := api.Group("/attempts")
	attempts.POST("", handle(body(func(*gin.Context, *v1.StartPublishRequest) {}), g.publish.StartPublish))
	attempts.GET("/:attempt", handle(params(func(c *gin.Context, r *v1.GetAttemptRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.GetAttempt))
	attempts.POST("/:attempt/workflow", handle(body(func(c *gin.Context, r *v1.ChooseWorkflowRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.ChooseWorkflow))
	attempts.POST("/:attempt/reviewers", handle(body(func(c *gin.Context, r *v1.ChooseReviewersRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.ChooseReviewers))
	attempts.POST("/:attempt/check", handle(params(func(c *gin.Context, r *v1.RunCheckRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.RunCheck))
	attempts.POST("/:attempt/confirm", handle(params(func(c *gin.Context, r *v1.ConfirmPublishRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.ConfirmPublish))
	attempts.POST("/:attempt/cancel", handle(params(func(c *gin.Context, r *v1.CancelPublishRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.CancelPublish))
	attempts.POST("/:attempt/back", handle(params(func(c *gin.Context, r *v1.GoBackRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.GoBack))
	attempts.POST("/:attempt/decision", handle(body(func(c *gin.Context, r *v1.ReviewDecisionRequest) {
		r.AttemptId = c.Param("attempt")
	}), g.publish.ReviewDecision))

	api.GET("/projects", handle[v1.ListProjectsRequest](nil, g.projects.ListProjects))
	api.GET("/projects/:name/stats", handle(params(func(c *gin.Context, r *v1.ProjectStatsRequest) {
		r.ProjectName = c.Param("name")
	}), g.projects.ProjectStats))

	if events != nil {
		api.GET("/events", g.streamEvents)
	}

	return engine
}

// handle binds the request, validates it and writes the response as json.
// A nil bind leaves the request zero valued.
func handle[Req, Resp any](bind func(*gin.Context, *Req) error, call func(context.Context, *Req) (*Resp, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := new(Req)
		if bind != nil {
			if err := bind(c, req); err != nil {
				abort(c, fmt.Errorf("%w: %v", v1.ErrInvalidArgument, err))
				return
			}
		}
		if v, ok := any(req).(validator); ok {
			if err := v.Validate(); err != nil {
				abort(c, err)
				return
			}
		}

		resp, err := call(c.Request.Context(), req)
		if err != nil {
			abort(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func params[Req any](fill func(*gin.Context, *Req)) func(*gin.Context, *Req) error {
	return func(c *gin.Context, r *Req) error {
		fill(c, r)
		return nil
	}
}

// body decodes the json body first so path parameters win over body fields.
func body[Req any](fill func(*gin.Context, *Req)) func(*gin.Context, *Req) error {
	return func(c *gin.Context, r *Req) error {
		if err := c.ShouldBindJSON(r); err != nil {
			return err
		}
		fill(c, r)
		return nil
	}
}

func abort(c *gin.Context, err error) {
	code := service.Code(err)
	if code == codes.Internal {
		logrus.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(httpStatus(code), gin.H{
		"code":  code.String(),
		"error": err.Error(),
	})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition, codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.Canceled:
		return 499
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/response"
	"github.com/oksasatya/course-marketplace/pkg/validation"
)

type CourseHandler struct {
	Courses *app.CourseService
	Access  *app.AccessService
	Logger  *logrus.Logger
}

func NewCourseHandler(courses *app.CourseService, access *app.AccessService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Courses: courses, Access: access, Logger: logger}
}

type createCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Price       string `json:"price" binding:"required,price"`
}

type addLectureForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	Position    int    `form:"position" binding:"gte=0"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Courses.CreateCourse(c.Request.Context(), middleware.CallerFrom(c), app.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toCourse(course), "course created", nil)
}

// AddLecture takes a multipart form with the video in the "video" field.
func (h *CourseHandler) AddLecture(c *gin.Context) {
	var form addLectureForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	fh, err := c.FormFile("video")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"video": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	lecture, err := h.Courses.AddLecture(c.Request.Context(), middleware.CallerFrom(c), c.Param("courseId"), app.AddLectureInput{
		Title:       form.Title,
		Description: form.Description,
		Position:    form.Position,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Video:       f,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, app.LectureSummary{ID: lecture.ID, Title: lecture.Title, Position: lecture.Position}, "lecture uploaded", nil)
}

func (h *CourseHandler) Details(c *gin.Context) {
	d, err := h.Courses.GetCourseDetails(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	v := toCourse(d.Course)
	v.Lectures = d.Lectures
	response.Success(c, http.StatusOK, v, "course", nil)
}

func (h *CourseHandler) Lecture(c *gin.Context) {
	la, err := h.Access.GetLectureAsset(c.Request.Context(), middleware.CallerFrom(c), c.Param("courseId"), c.Param("lectureId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":           la.Lecture.ID,
		"course_id":    la.Lecture.CourseID,
		"title":        la.Lecture.Title,
		"description":  la.Lecture.Description,
		"position":     la.Lecture.Position,
		"asset_ref":    la.AssetRef,
		"playable_url": la.PlayableURL,
	}, "lecture", nil)
}

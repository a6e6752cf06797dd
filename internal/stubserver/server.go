// Package stubserver is an in-memory implementation of the student portal
// REST API. It backs local development (cmd/portalstub) and the integration
// tests; the real portal is a separate service.
package stubserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evalportal/internal/api"
	"evalportal/internal/auth"
	"evalportal/internal/config"
	"evalportal/internal/httpmiddleware"
)

// Data seeds the stub portal and accumulates submissions.
type Data struct {
	mu sync.Mutex

	Password  string
	Profile   api.ProfileRecord
	Assigned  []api.EvaluationSummary
	Completed []api.CompletedEvaluation
	// Details is keyed by templateID, or templateID+"|"+courseCode when the
	// completion is course-specific.
	Details         map[string]api.FeedbackDetail
	Complaints      []api.Complaint
	FacultyRequests []api.FacultyRequest
}

// SampleData returns a small seeded portal for local development.
func SampleData() *Data {
	return &Data{
		Password: "changeme",
		Profile: api.ProfileRecord{
			StudentID:      "2021-1-60-123",
			Name:           "Demo Student",
			Email:          "demo.student@example.edu",
			ContactNo:      "01700000000",
			DOB:            "2002-03-14",
			Gender:         "F",
			Session:        "2021-22",
			Batch:          "58",
			Department:     "CSE",
			EnrollmentDate: "2021-02-01",
			CGPA:           "3.72",
		},
		Assigned: []api.EvaluationSummary{
			{ID: "11", Title: "Mid-term Course Evaluation", CourseCode: "CSE-305", Batch: "58", Session: "2021-22", DueDate: "2026-09-15"},
			{ID: "12", Title: "Lab Facilities Survey", Session: "2021-22", DueDate: "2026-09-30"},
		},
		Completed: []api.CompletedEvaluation{
			{TemplateID: "7", Title: "Course Exit Survey", CourseCode: "CSE-210", CourseName: "Data Structures", FacultyName: "Dr. Rahman", Session: "2021-22", Batch: "58", CompletionDate: "2026-05-20"},
		},
		Details: map[string]api.FeedbackDetail{
			"7|CSE-210": {
				Feedback: map[string]string{
					"Was the course well organized?":   "Yes, mostly.",
					"Rate the instructor's clarity":    "4/5",
					"Would you recommend this course?": "Yes",
				},
				Comment: "More practice problems would help.",
			},
		},
	}
}

// Server serves the portal API over a seeded Data set.
type Server struct {
	cfg  config.App
	data *Data
}

// New creates a stub portal server.
func New(cfg config.App, data *Data) *Server {
	if data.Details == nil {
		data.Details = make(map[string]api.FeedbackDetail)
	}
	return &Server{cfg: cfg, data: data}
}

// Router builds the gin engine with all portal routes mounted under /api.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	apiGroup.POST("/student/login", s.login)

	student := apiGroup.Group("/student", s.studentAuth())
	student.POST("/logout", s.logout)
	student.GET("/evaluations/assigned", s.assignedEvaluations)
	student.GET("/profile", s.profile)
	student.PUT("/profile/update", s.updateProfile)
	student.GET("/evaluations/completed", s.completedEvaluations)
	student.GET("/evaluations/completed/details", s.completedDetails)
	student.GET("/complaints/list", s.listComplaints)
	student.POST("/complaints/submit", s.submitComplaint)
	student.POST("/requests/faculty_request", s.submitFacultyRequest)

	return r
}

// studentAuth enforces bearer JWT tokens signed with HS256.
func (s *Server) studentAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := auth.Parse(tokenStr, s.cfg.JWTSigningKey, s.cfg.JWTIssuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid session token."})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		StudentID string `json:"student_id" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Student ID and password are required."})
		return
	}

	s.data.mu.Lock()
	ok := req.StudentID == s.data.Profile.StudentID && req.Password == s.data.Password
	name := s.data.Profile.Name
	s.data.mu.Unlock()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid student ID or password."})
		return
	}

	token, exp, err := auth.Issue(req.StudentID, name, "student", s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful.",
		"token":        token,
		"student_id":   req.StudentID,
		"student_name": name,
		"expires_at":   exp.Unix(),
	})
}

func (s *Server) logout(c *gin.Context) {
	// Tokens are stateless; logout is an acknowledgment.
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful."})
}

func (s *Server) assignedEvaluations(c *gin.Context) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	evals := s.data.Assigned
	if evals == nil {
		evals = []api.EvaluationSummary{}
	}
	c.JSON(http.StatusOK, evals)
}

func (s *Server) profile(c *gin.Context) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	c.JSON(http.StatusOK, s.data.Profile)
}

func (s *Server) updateProfile(c *gin.Context) {
	var update map[string]string
	if err := c.ShouldBindJSON(&update); err != nil || len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No data provided for update."})
		return
	}

	editable := map[string]bool{}
	for _, f := range api.EditableProfileFields {
		editable[f] = true
	}
	applied := false
	s.data.mu.Lock()
	for field, value := range update {
		if !editable[field] {
			continue
		}
		applied = true
		switch field {
		case api.FieldName:
			s.data.Profile.Name = value
		case api.FieldContactNo:
			s.data.Profile.ContactNo = value
		case api.FieldProfilePicture:
			s.data.Profile.ProfilePicture = value
		case api.FieldBehavioralRecords:
			s.data.Profile.BehavioralRecords = value
		}
	}
	s.data.mu.Unlock()

	if !applied {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No editable fields provided for update."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully."})
}

func (s *Server) completedEvaluations(c *gin.Context) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	evals := s.data.Completed
	if evals == nil {
		evals = []api.CompletedEvaluation{}
	}
	c.JSON(http.StatusOK, evals)
}

func (s *Server) completedDetails(c *gin.Context) {
	templateID := c.Query("template_id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing template_id parameter."})
		return
	}
	courseCode := c.Query("course_code")

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if courseCode != "" {
		if detail, ok := s.data.Details[templateID+"|"+courseCode]; ok {
			c.JSON(http.StatusOK, detail)
			return
		}
	}
	if detail, ok := s.data.Details[templateID]; ok {
		c.JSON(http.StatusOK, detail)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Completed evaluation details not found."})
}

func (s *Server) listComplaints(c *gin.Context) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	complaints := s.data.Complaints
	if complaints == nil {
		complaints = []api.Complaint{}
	}
	c.JSON(http.StatusOK, complaints)
}

func (s *Server) submitComplaint(c *gin.Context) {
	var sub api.ComplaintSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid complaint payload."})
		return
	}
	if sub.IssueType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "issue_type required"})
		return
	}
	if strings.TrimSpace(sub.Details) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "details required"})
		return
	}

	s.data.mu.Lock()
	s.data.Complaints = append(s.data.Complaints, api.Complaint{
		CourseCode: sub.CourseCode,
		IssueType:  sub.IssueType,
		Details:    sub.Details,
		Status:     "pending",
	})
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Complaint submitted successfully.", "id": uuid.NewString()})
}

func (s *Server) submitFacultyRequest(c *gin.Context) {
	var req api.FacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload."})
		return
	}
	if strings.TrimSpace(req.CourseName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "course_name required"})
		return
	}
	if strings.TrimSpace(req.Details) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "details required"})
		return
	}

	s.data.mu.Lock()
	s.data.FacultyRequests = append(s.data.FacultyRequests, req)
	s.data.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Faculty request submitted."})
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// corsMiddleware allows the browser front end during development.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Package server exposes a fitted discriminant model over HTTP.
package server

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discriminant/internal/boundary"
	"discriminant/internal/models"
)

// MaxGridPoints caps the number of mesh points a /boundary request may score.
const MaxGridPoints = 1_000_000

// errNonFinite is reported when scores overflow or turn NaN, which JSON
// cannot carry.
var errNonFinite = errors.New("server: scores are not finite")

// Options configures a Server. Mins and Maxs are the training ranges that
// boundary grids span; without them /boundary is unavailable.
type Options struct {
	Model        models.Model
	FeatureNames []string
	Mins, Maxs   []float64
	APIKey       string
	Logger       *zap.Logger
}

type Server struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{opts: opts, log: log}
}

// Router returns the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/")
	api.Use(s.apiKeyMiddleware)
	api.GET("/model", s.handleModel)
	api.POST("/predict", s.handlePredict)
	api.POST("/boundary", s.handleBoundary)
	return r
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	)
}

func (s *Server) apiKeyMiddleware(c *gin.Context) {
	if s.opts.APIKey == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != s.opts.APIKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.opts.Model.Name()})
}

type modelResp struct {
	Name         string        `json:"name"`
	Classes      []int         `json:"classes"`
	FeatureNames []string      `json:"feature_names,omitempty"`
	Mus          [][]float64   `json:"mus,omitempty"`
	Pis          []float64     `json:"pis,omitempty"`
	Mu           []float64     `json:"mu,omitempty"`
	S            [][]float64   `json:"S,omitempty"`
	Ss           [][][]float64 `json:"Ss,omitempty"`
}

func (s *Server) handleModel(c *gin.Context) {
	m := s.opts.Model
	resp := modelResp{Name: m.Name(), Classes: m.Labels(), FeatureNames: s.opts.FeatureNames}
	switch t := m.(type) {
	case *models.LDA:
		resp.Mus, resp.Pis, resp.Mu, resp.S = t.Mus, t.Pis, t.Mu, t.S
	case *models.QDA:
		resp.Mus, resp.Pis, resp.Ss = t.Mus, t.Pis, t.Ss
	}
	c.JSON(http.StatusOK, resp)
}

type predictReq struct {
	Points [][]float64 `json:"points" binding:"required,min=1,dive,min=1"`
}

type predictResp struct {
	Scores [][]float64 `json:"scores"`
	Index  []int       `json:"index"`
	Labels []int       `json:"labels"`
	Proba  [][]float64 `json:"proba"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scores, err := s.opts.Model.Scores(req.Points)
	if err != nil {
		s.fail(c, err)
		return
	}
	proba := models.SoftmaxRows(scores)
	if !finite(scores) || !finite(proba) {
		s.fail(c, errNonFinite)
		return
	}
	idx := models.ArgmaxRows(scores)
	classes := s.opts.Model.Labels()
	labels := make([]int, len(idx))
	for i, k := range idx {
		labels[i] = classes[k]
	}
	c.JSON(http.StatusOK, predictResp{
		Scores: scores,
		Index:  idx,
		Labels: labels,
		Proba:  proba,
	})
}

type boundaryReq struct {
	GridSize int `json:"grid_size" binding:"required,min=2,max=40"`
}

type planeResp struct {
	Classes [2]int      `json:"classes"`
	W       []float64   `json:"w"`
	B       float64     `json:"b"`
	Surface [][]float64 `json:"surface,omitempty"`
}

type fieldResp struct {
	Classes [2]int    `json:"classes"`
	Values  []float64 `json:"values"`
}

type boundaryResp struct {
	Model  string      `json:"model"`
	Axes   [][]float64 `json:"axes"`
	Planes []planeResp `json:"planes,omitempty"`
	Fields []fieldResp `json:"fields,omitempty"`
}

// handleBoundary returns LDA planes (with their z surface over the first two
// axes for 3-D models) or, for other models, every pairwise score difference
// over the full grid.
func (s *Server) handleBoundary(c *gin.Context) {
	var req boundaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(s.opts.Mins) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "model was saved without training ranges"})
		return
	}
	grid, err := boundary.NewGridBounds(s.opts.Mins, s.opts.Maxs, req.GridSize, boundary.DefaultMargin)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := s.opts.Model
	classes := m.Labels()
	resp := boundaryResp{Model: m.Name(), Axes: grid.Axes}
	if lda, ok := m.(*models.LDA); ok {
		planes, err := boundary.LDAPlanes(lda)
		if err != nil {
			s.fail(c, err)
			return
		}
		for _, p := range planes {
			if !finite([][]float64{p.W, {p.B}}) {
				s.fail(c, errNonFinite)
				return
			}
			pr := planeResp{Classes: [2]int{classes[p.I], classes[p.J]}, W: p.W, B: p.B}
			if grid.Dims() == 3 {
				if zz, ok := boundary.PlaneSurface(p, grid); ok && finite(zz) {
					pr.Surface = zz
				}
			}
			resp.Planes = append(resp.Planes, pr)
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	if !grid.LenAtMost(MaxGridPoints) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
			"grid of %d axes with %d points each exceeds %d points", grid.Dims(), req.GridSize, MaxGridPoints)})
		return
	}
	field, err := boundary.NewIsoField(m, grid)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !finite(field.Scores) {
		s.fail(c, errNonFinite)
		return
	}
	for _, pr := range boundary.Pairs(len(classes)) {
		resp.Fields = append(resp.Fields, fieldResp{
			Classes: [2]int{classes[pr[0]], classes[pr[1]]},
			Values:  field.Pair(pr[0], pr[1]),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrDimension):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrSingularCovariance), errors.Is(err, errNonFinite):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFitted):
		status = http.StatusServiceUnavailable
	}
	s.log.Warn("scoring failed", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func finite(rows [][]float64) bool {
	for _, row := range rows {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

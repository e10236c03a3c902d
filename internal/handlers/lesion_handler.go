package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/usecase/lesion"
)

// LesionDeps wires the lesion use cases. Analyzer may be nil.
type LesionDeps struct {
	Repo     domain.Repository
	Store    lesion.ObjectStore
	Analyzer lesion.Analyzer
	Notifier lesion.Notifier
	Audit    *audit.Dispatcher
	Log      *zap.Logger
}

type LesionHandler struct {
	repo    domain.Repository
	upload  *lesion.UploadLesion
	analyze *lesion.AnalyzeLesion
	view    *lesion.ViewLesions
}

func NewLesionHandler(deps LesionDeps) *LesionHandler {
	return &LesionHandler{
		repo:    deps.Repo,
		upload:  lesion.NewUploadLesion(deps.Repo, deps.Store, deps.Audit, deps.Log),
		analyze: lesion.NewAnalyzeLesion(deps.Repo, deps.Store, deps.Analyzer, deps.Notifier, deps.Audit, deps.Log),
		view:    lesion.NewViewLesions(deps.Repo, deps.Store),
	}
}

// ======================================================
// UPLOAD
// ======================================================

func (h *LesionHandler) Upload(c *gin.Context) {
	// one extra MiB for the other multipart fields
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxUploadBytes+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			httperr.Respond(c, httperr.ErrBusiness("image_too_large"), "")
			return
		}
		httperr.Respond(c, httperr.ErrBusiness("image_required"), "")
		return
	}
	if fh.Size > domain.MaxUploadBytes {
		httperr.Respond(c, httperr.ErrBusiness("image_too_large"), "")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read the uploaded file.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxUploadBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read the uploaded file.")
		return
	}

	img, err := h.upload.Execute(c.Request.Context(), lesion.UploadInput{
		PatientID: middleware.UserID(c),
		Data:      data,
		BodySite:  c.PostForm("body_site"),
		Notes:     c.PostForm("notes"),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_upload_lesion")
		return
	}

	h.respondOne(c, http.StatusCreated, img.ID)
}

// ======================================================
// ANALYZE
// ======================================================

func (h *LesionHandler) Analyze(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, err := h.analyze.Execute(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.Respond(c, err, "failed_to_analyze_lesion")
		return
	}

	h.respondOne(c, http.StatusOK, id)
}

// ======================================================
// VIEW
// ======================================================

func (h *LesionHandler) ListMine(c *gin.Context) {
	h.respondList(c, middleware.UserID(c))
}

// ListForPatient lets a connected doctor browse a patient's images.
func (h *LesionHandler) ListForPatient(c *gin.Context) {
	patientID, ok := paramID(c, "id")
	if !ok {
		return
	}

	connected, err := h.repo.IsConnected(c.Request.Context(), middleware.UserID(c), patientID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_lesions", "Unexpected error.")
		return
	}
	if !connected {
		httperr.Respond(c, httperr.ErrBusiness("not_connected"), "")
		return
	}

	h.respondList(c, patientID)
}

func (h *LesionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	h.respondOne(c, http.StatusOK, id)
}

func (h *LesionHandler) respondList(c *gin.Context, patientID uint) {
	items, err := h.view.List(c.Request.Context(), patientID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_lesions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"disclaimer": domain.Disclaimer,
		"lesions":    items,
	})
}

func (h *LesionHandler) respondOne(c *gin.Context, status int, id uint) {
	item, err := h.view.Get(c.Request.Context(), tokenUser(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_lesion")
		return
	}

	c.JSON(status, item)
}


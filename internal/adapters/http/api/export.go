package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/enow/internal/adapters/export"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/national"
	"github.com/okian/enow/pkg/metrics"
)

// ExportFilename is suggested to clients downloading the workbook.
const ExportFilename = "ocean-economy.xlsx"

// ExportHandler serves the XLSX workbook.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /api/export.xlsx requests. The Breakdown sheet is
// added when any breakdown parameter is present.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if !onlyGet(w, r) {
		return
	}
	ctx := r.Context()

	s, err := h.deps.Summary(ctx)
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	pictograms, err := h.deps.Pictograms(ctx)
	if err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	rep := export.Report{Summary: s, Formatted: national.Format(s), Pictograms: pictograms}

	if HasSelection(r) {
		state, metric := h.deps.Defaults()
		sel, mode, err := ParseSelection(r, state, metric)
		if err == nil {
			err = sel.Validate()
		}
		var res breakdown.Result
		if err == nil {
			res, err = h.deps.Breakdown(ctx, sel, mode)
		}
		if err != nil {
			WriteFailure(w, r, op, err)
			return
		}
		rep.Breakdown = &res
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, rep); err != nil {
		WriteFailure(w, r, op, err)
		return
	}
	metrics.RecordExport()
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

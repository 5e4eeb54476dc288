package api

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/common"
	"github.com/smartkollect/kollect/internal/payment"
)

func (s *Server) handlePaymentImport(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if !s.requireStore(w) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing required file: file")
		return
	}
	defer file.Close()

	records, warnings, err := payment.ParseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment file: "+err.Error())
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "No valid payment records in file")
		return
	}
	logger.Info("api: payment import requested",
		"file", header.Filename, "records", len(records), "warnings", len(warnings))

	batch, err := s.importer.Import(r.Context(), header.Filename, records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import payments: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Success: true, Batch: batch, Warnings: warnings})
}

func (s *Server) handlePaymentBatch(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch id")
		return
	}
	batch, err := s.store.PaymentBatch(r.Context(), batchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load batch: "+err.Error())
		return
	}
	if batch == nil {
		writeError(w, http.StatusNotFound, "Batch not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"batch": batch})
}

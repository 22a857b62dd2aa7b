package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	kvdb "github.com/kvdb-io/kvdb"
)

// loadOrCreate reads the store at path. A missing file is an empty
// store, not an error.
func loadOrCreate(path string) (*kvdb.DB, error) {
	db, err := kvdb.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return kvdb.New(), nil
		}

		return nil, err
	}

	return db, nil
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, dbPath func() string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}

	if dbPath() == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "db is required"})
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !decodeRequest(w, r, &req, func() string { return req.DB }) {
		return
	}

	db, err := loadOrCreate(req.DB)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := InsertResponse{
		Results: make([]ItemResult, 0, len(req.Vectors)),
	}

	for _, v := range req.Vectors {
		res, err := db.Insert(v.ID, v.Values)
		s.logger.LogInsert(r.Context(), v.ID, db.Dimension(), res.Updated, err)

		if err != nil {
			resp.Results = append(resp.Results, ItemResult{ID: v.ID, Status: "error", Message: err.Error()})
			continue
		}

		resp.Inserted++
		resp.Results = append(resp.Results, ItemResult{ID: v.ID, Status: "ok"})
	}

	if resp.Inserted > 0 {
		if err := db.Save(req.DB); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeRequest(w, r, &req, func() string { return req.DB }) {
		return
	}

	db, err := loadOrCreate(req.DB)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := SearchResponse{
		Results: make([]QueryResult, 0, len(req.Queries)),
	}

	for _, q := range req.Queries {
		topK := q.TopK
		if topK <= 0 {
			topK = DefaultTopK
		}

		results, err := db.Search(q.Value, topK)
		s.logger.LogSearch(r.Context(), topK, len(results), err)

		if err != nil {
			resp.Results = append(resp.Results, QueryResult{Matches: []Match{}, Message: err.Error()})
			continue
		}

		matches := make([]Match, 0, len(results))
		for _, res := range results {
			matches = append(matches, Match{ID: res.ID, Score: res.Score, Values: res.Vector})
		}

		resp.Results = append(resp.Results, QueryResult{Matches: matches})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	var req GetRequest
	if !decodeRequest(w, r, &req, func() string { return req.DB }) {
		return
	}

	db, err := loadOrCreate(req.DB)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := GetResponse{
		Results: make([]GetItem, 0, len(req.IDs)),
	}

	for _, id := range req.IDs {
		item := GetItem{ID: id}

		if v, ok := db.Get(id); ok {
			item.Values = v
		}

		resp.Results = append(resp.Results, item)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !decodeRequest(w, r, &req, func() string { return req.DB }) {
		return
	}

	db, err := loadOrCreate(req.DB)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := DeleteResponse{
		Results: make([]ItemResult, 0, len(req.IDs)),
	}

	for _, id := range req.IDs {
		err := db.Delete(id)
		s.logger.LogDelete(r.Context(), id, err)

		if err != nil {
			resp.Results = append(resp.Results, ItemResult{ID: id, Status: "error", Message: err.Error()})
			continue
		}

		resp.Deleted++
		resp.Results = append(resp.Results, ItemResult{ID: id, Status: "ok"})
	}

	if resp.Deleted > 0 {
		if err := db.Save(req.DB); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

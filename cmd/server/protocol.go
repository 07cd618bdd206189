// Package main provides a TCP SQL server for RowDB.
package main

import (
	"encoding/json"

	"github.com/nickyhof/RowDB/db"
)

// Response is one line of the server protocol.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "commit" or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular results.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

// CommitResponse contains catalog mutation results.
type CommitResponse struct {
	TablesCreated  int     `json:"tables_created,omitempty"`
	RecordsWritten int     `json:"records_written,omitempty"`
	Transaction    string  `json:"transaction,omitempty"`
	Author         string  `json:"author,omitempty"`
	TimeMs         float64 `json:"time_ms"`
}

// AuthResponse is returned after a successful AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func errorResponse(err error) Response {
	return Response{
		Success: false,
		Error:   err.Error(),
	}
}

func resultResponse(result db.Result) Response {
	switch r := result.(type) {
	case db.QueryResult:
		data, _ := json.Marshal(QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		})
		return Response{Success: true, Type: "query", Result: data}

	case db.CommitResult:
		data, _ := json.Marshal(CommitResponse{
			TablesCreated:  r.TablesCreated,
			RecordsWritten: r.RecordsWritten,
			Transaction:    r.Transaction.Id,
			Author:         r.Transaction.Author,
			TimeMs:         r.ExecutionTimeSec * 1000,
		})
		return Response{Success: true, Type: "commit", Result: data}

	default:
		return Response{Success: true}
	}
}

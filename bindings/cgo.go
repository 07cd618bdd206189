package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"sync"
	"unsafe"

	"github.com/nickyhof/RowDB"
	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/db"
)

// Handle represents an open database instance
type Handle struct {
	instance *RowDB.Instance
	engine   *db.Engine
	mu       sync.Mutex
}

var (
	handlesMu  sync.Mutex
	handles    = make(map[int]*Handle)
	nextHandle = 1
)

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

type CommitResponse struct {
	TablesCreated  int     `json:"tables_created,omitempty"`
	RecordsWritten int     `json:"records_written,omitempty"`
	Transaction    string  `json:"transaction,omitempty"`
	Author         string  `json:"author,omitempty"`
	TimeMs         float64 `json:"time_ms"`
}

func openHandle(path, name string) int {
	instance, err := RowDB.OpenPath(path, name, true)
	if err != nil {
		return -1
	}

	engine := instance.Engine(core.Identity{
		Name:  "RowDB Bindings",
		Email: "bindings@rowdb.local",
	})

	handlesMu.Lock()
	defer handlesMu.Unlock()
	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		instance: instance,
		engine:   engine,
	}
	return handle
}

func lookupHandle(handle int) (*Handle, bool) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	h, ok := handles[handle]
	return h, ok
}

func closeHandle(handle int) {
	handlesMu.Lock()
	h, ok := handles[handle]
	delete(handles, handle)
	handlesMu.Unlock()

	if ok {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.instance.Close()
	}
}

func execute(handle int, query string) Response {
	h, ok := lookupHandle(handle)
	if !ok {
		return Response{Success: false, Error: "Invalid handle"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.engine.Execute(query)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}

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

//export rowdb_open
func rowdb_open(path *C.char, name *C.char) C.int {
	return C.int(openHandle(C.GoString(path), C.GoString(name)))
}

//export rowdb_close
func rowdb_close(handle C.int) {
	closeHandle(int(handle))
}

//export rowdb_execute
func rowdb_execute(handle C.int, query *C.char) *C.char {
	jsonData, _ := json.Marshal(execute(int(handle), C.GoString(query)))
	return C.CString(string(jsonData))
}

//export rowdb_free
func rowdb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func main() {}

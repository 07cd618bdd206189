// Package ps provides the storage engine for RowDB.
//
// A database is a directory holding a catalog, one metadata sidecar per
// table and one append-only row file per table:
//
//	<db>/
//	  metadata.ron                 catalog (DatabaseMetadata)
//	  tables/<table>.meta.ron      schema (TableMetadata)
//	  tables/<table>.data.bin      rows
//	  .history/                    catalog history (optional)
//
// Metadata documents are indented JSON and are replaced atomically. Each
// row record is a 4-byte little-endian payload length followed by the
// payload produced by EncodeRow.
//
// # Usage
//
//	database, err := ps.CreateDatabase("/path/to/db", "main")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := database.CreateTable("users", columns)
//	err = table.InsertRow(core.Row{core.Integer(1), core.Text("Alice")})
//	rows, err := table.ReadAllRows()
//
// # History
//
// History records snapshots of the catalog documents in a Git repository,
// backed by go-git:
//
//	history, err := ps.OpenHistory(filepath.Join(path, ps.HistoryDir))
//	files, _ := database.CatalogFiles()
//	txn, err := history.Record(files, identity, "Creating table users")
package ps

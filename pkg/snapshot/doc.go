// Package snapshot serializes a built note graph, its settled layout and its
// diagnostics as JSON.
//
// # Format
//
//	{
//	  "id": "4f0c…",
//	  "root": "/home/me/notes",
//	  "steps": 1000,
//	  "nodes": [
//	    {"id": "a", "index": 0, "path": "/home/me/notes/a.md", "x": 12.5, "y": -3, "degree": 1},
//	    {"id": "b", "index": 1, "path": "/home/me/notes/b.md", "x": -40, "y": 8, "degree": 1}
//	  ],
//	  "edges": [
//	    {"from": "a", "to": "b"}
//	  ],
//	  "diagnostics": [
//	    {"kind": "dangling-link", "source": "b", "target": "zzz", "line": 4, "message": "b links to unknown note \"zzz\""}
//	  ]
//	}
//
// Node ids are note identifiers; edges refer to them by id. Each snapshot
// carries a random run id so consumers polling the HTTP API can tell a
// rebuild from a repeat.
//
// Use [New] to capture a snapshot, [WriteJSON] or [ExportJSON] to encode it,
// and [ReadJSON] plus [Snapshot.Graph] to load it back.
package snapshot

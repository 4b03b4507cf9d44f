// Package rest provides the HTTP surface over the query core.
//
// Tables are exposed at /{table}; stored views at /views/{id}. The handlers
// only decode requests and encode responses: all query composition happens in
// the repository facade and the view engine.
//
// Query parameters on GET requests:
//
//	Parameter         | Description
//	------------------|------------------------------------------------
//	?select=col1,col2 | Select specific columns (default *)
//	?page=2           | Page number (requires pageSize)
//	?pageSize=10      | Rows per page (requires page)
//	?orderBy=col      | Order results by a column
//	?ascending=false  | Reverse the sort order (default ascending)
//	?col=value        | Equality filter on any other key
//
// POST /{table}/query accepts a JSON body with a recursive filter tree:
//
//	{
//	  "select": "*",
//	  "filter": {
//	    "logic": "AND",
//	    "filters": [
//	      {"field": "status", "operator": "=", "value": "active"},
//	      {"logic": "OR", "filters": [
//	        {"field": "role", "operator": "=", "value": "admin"},
//	        {"field": "role", "operator": "=", "value": "moderator"}
//	      ]}
//	    ]
//	  },
//	  "options": {"page": 1, "pageSize": 20, "orderBy": "created_at", "ascending": false}
//	}
//
// Responses carry {"data": [...], "count": n} on success and
// {"code": n, "message": "..."} on failure.
package rest

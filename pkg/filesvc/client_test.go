package filesvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allansene/orchest/pkg/filesvc"
	"github.com/allansene/orchest/pkg/filetree"
)

func testScope() filesvc.Scope {
	return filesvc.Scope{
		ProjectUUID:  "5a3d7a7e-1f3b-4a7a-9e6f-0c9a4c1a2b3c",
		PipelineUUID: "7b1e9c2d-4f5a-6b7c-8d9e-0f1a2b3c4d5e",
	}
}

func TestScopeComplete(t *testing.T) {
	assert.False(t, filesvc.Scope{}.Complete())
	assert.False(t, filesvc.Scope{PipelineUUID: "x"}.Complete())
	assert.True(t, filesvc.Scope{ProjectUUID: "x"}.Complete())
}

func TestScopeValues(t *testing.T) {
	v := testScope().Values()
	assert.Equal(t, "5a3d7a7e-1f3b-4a7a-9e6f-0c9a4c1a2b3c", v.Get("project_uuid"))
	assert.Equal(t, "7b1e9c2d-4f5a-6b7c-8d9e-0f1a2b3c4d5e", v.Get("pipeline_uuid"))
	assert.False(t, v.Has("job_uuid"), "unset identifiers are omitted")
	assert.False(t, v.Has("run_uuid"))
	assert.False(t, v.Has("snapshot_uuid"))
}

func TestScopeMerge(t *testing.T) {
	base := testScope()
	merged := base.Merge(filesvc.Scope{SnapshotUUID: "snap"})
	assert.Equal(t, base.ProjectUUID, merged.ProjectUUID)
	assert.Equal(t, "snap", merged.SnapshotUUID)

	overridden := base.Merge(filesvc.Scope{ProjectUUID: "other"})
	assert.Equal(t, "other", overridden.ProjectUUID)
}

func TestFetchSubtree(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/browse", r.URL.Path)
		gotQuery = map[string]string{
			"project_uuid": r.URL.Query().Get("project_uuid"),
			"root":         r.URL.Query().Get("root"),
			"path":         r.URL.Query().Get("path"),
			"depth":        r.URL.Query().Get("depth"),
		}
		_ = json.NewEncoder(w).Encode(filetree.TreeNode{
			Path: "/",
			Children: []*filetree.TreeNode{
				{Path: "/main.py"},
				{Path: "/lib/"},
			},
		})
	}))
	defer srv.Close()

	client, err := filesvc.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	node, err := client.FetchSubtree(context.Background(), testScope(), "project-dir", "/", 2)
	require.NoError(t, err)

	assert.Equal(t, "/", node.Path)
	require.Len(t, node.Children, 2)
	assert.Equal(t, map[string]string{
		"project_uuid": testScope().ProjectUUID,
		"root":         "project-dir",
		"path":         "/",
		"depth":        "2",
	}, gotQuery)
}

func TestFetchSubtreeMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := filesvc.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.FetchSubtree(context.Background(), testScope(), "project-dir", "/nope/", 1)
	assert.ErrorIs(t, err, filesvc.ErrNotFound)
}

func TestCreateEndpoints(t *testing.T) {
	type call struct {
		path string
		body map[string]string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, call{path: r.URL.Path, body: body})
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := filesvc.NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.CreateFile(ctx, testScope(), "project-dir", "/new.py"))
	require.NoError(t, client.CreateDirectory(ctx, testScope(), "project-dir", "/models/"))
	require.NoError(t, client.DeleteNode(ctx, testScope(), "project-dir", "/old.py"))

	require.Len(t, calls, 3)
	assert.Equal(t, "/create", calls[0].path)
	assert.Equal(t, "/new.py", calls[0].body["path"])
	assert.Equal(t, "/create-dir", calls[1].path)
	assert.Equal(t, "/delete", calls[2].path)
	assert.Equal(t, "project-dir", calls[2].body["root"])
}

func TestMoveNode(t *testing.T) {
	var got filesvc.MoveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rename", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := filesvc.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	req := filesvc.MoveRequest{
		SourceRoot:      "project-dir",
		SourcePath:      "/a.py",
		DestinationRoot: "data",
		DestinationPath: "/a.py",
	}
	require.NoError(t, client.MoveNode(context.Background(), testScope(), req))
	assert.Equal(t, req, got)
}

func TestRemoteFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "directory not empty", http.StatusConflict)
	}))
	defer srv.Close()

	client, err := filesvc.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	err = client.DeleteNode(context.Background(), testScope(), "project-dir", "/busy/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "directory not empty")
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := filesvc.NewClient("not-a-url", time.Second)
	assert.Error(t, err)
}

package filesvc

import (
	"net/url"
	"strings"
)

// Scope is the set of identifiers narrowing which remote namespace
// instance is being viewed. ProjectUUID is mandatory for any remote
// operation; the rest narrow the view to a pipeline, a job's snapshot or a
// run's data.
type Scope struct {
	ProjectUUID  string
	PipelineUUID string
	JobUUID      string
	RunUUID      string
	SnapshotUUID string
}

// Complete reports whether the scope carries the mandatory project
// identifier. Operations invoked with an incomplete scope are no-ops.
func (s Scope) Complete() bool {
	return s.ProjectUUID != ""
}

// Merge returns the scope with any identifiers set in override taking
// precedence.
func (s Scope) Merge(override Scope) Scope {
	if override.ProjectUUID != "" {
		s.ProjectUUID = override.ProjectUUID
	}
	if override.PipelineUUID != "" {
		s.PipelineUUID = override.PipelineUUID
	}
	if override.JobUUID != "" {
		s.JobUUID = override.JobUUID
	}
	if override.RunUUID != "" {
		s.RunUUID = override.RunUUID
	}
	if override.SnapshotUUID != "" {
		s.SnapshotUUID = override.SnapshotUUID
	}
	return s
}

// Values encodes the scope as request query parameters. Unset identifiers
// are omitted.
func (s Scope) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("project_uuid", s.ProjectUUID)
	set("pipeline_uuid", s.PipelineUUID)
	set("job_uuid", s.JobUUID)
	set("run_uuid", s.RunUUID)
	set("snapshot_uuid", s.SnapshotUUID)
	return v
}

// Key returns a stable string form of the scope for use in
// request-deduplication keys.
func (s Scope) Key() string {
	return strings.Join([]string{
		s.ProjectUUID, s.PipelineUUID, s.JobUUID, s.RunUUID, s.SnapshotUUID,
	}, "|")
}

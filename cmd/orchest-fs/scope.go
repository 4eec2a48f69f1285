package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/allansene/orchest/pkg/filesvc"
)

// currentScope assembles the scope from flags, environment and config
// file, validating that every identifier that was supplied is a UUID.
func currentScope() (filesvc.Scope, error) {
	scope := filesvc.Scope{
		ProjectUUID:  viper.GetString("scope.project_uuid"),
		PipelineUUID: viper.GetString("scope.pipeline_uuid"),
		JobUUID:      viper.GetString("scope.job_uuid"),
		RunUUID:      viper.GetString("scope.run_uuid"),
		SnapshotUUID: viper.GetString("scope.snapshot_uuid"),
	}

	for name, val := range map[string]string{
		"project":  scope.ProjectUUID,
		"pipeline": scope.PipelineUUID,
		"job":      scope.JobUUID,
		"run":      scope.RunUUID,
		"snapshot": scope.SnapshotUUID,
	} {
		if val == "" {
			continue
		}
		if err := uuid.Validate(val); err != nil {
			return filesvc.Scope{}, fmt.Errorf("invalid %s UUID %q: %w", name, val, err)
		}
	}
	return scope, nil
}

// requireScope is currentScope plus the check that the mandatory project
// identifier is present, for commands where a silent no-op would read as a
// hang.
func requireScope() (filesvc.Scope, error) {
	scope, err := currentScope()
	if err != nil {
		return filesvc.Scope{}, err
	}
	if !scope.Complete() {
		return filesvc.Scope{}, fmt.Errorf("a project UUID is required (--project, ORCHEST_SCOPE_PROJECT_UUID or config)")
	}
	return scope, nil
}

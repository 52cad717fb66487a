// Package planner handles the planning phase of a dataset download.
//
// The planner decides, before any network traffic, which of the requested
// files still need fetching. A file is skipped when its extracted path or
// its "<path>.unzip" marker already exists in the destination directory,
// unless overwrite is requested.
//
// Key responsibilities:
//   - Generate a DownloadPlan with fetch and skip lists in ascending key order
//   - Validate that listing paths stay inside the destination directory
//   - Render the fileSn key parameter for the download request
package planner

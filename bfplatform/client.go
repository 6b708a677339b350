// Package bfplatform is a small client for the Seqera Platform API, covering
// the two calls batchforge makes after deployment: registering an AWS
// credential pair and registering the pre-built compute environment.
package bfplatform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Client talks to one Seqera Platform server with one access token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a client for the given server URL and access token.
func New(serverURL, accessToken string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		token:   accessToken,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateCredentialsRequest registers an AWS access-key pair in a workspace.
type CreateCredentialsRequest struct {
	Name        string
	WorkspaceID int64
	AccessKey   string
	SecretKey   string
}

// CreateCredentials registers the key pair and returns the opaque credentials
// identifier the compute-environment registration consumes.
func (c *Client) CreateCredentials(ctx context.Context, req CreateCredentialsRequest) (string, error) {
	body := map[string]any{
		"credentials": map[string]any{
			"name":     req.Name,
			"provider": "aws",
			"keys": map[string]any{
				"accessKey": req.AccessKey,
				"secretKey": req.SecretKey,
			},
		},
	}

	var reply struct {
		CredentialsID string `json:"credentialsId"`
	}
	if err := c.post(ctx, "/credentials", req.WorkspaceID, body, &reply); err != nil {
		return "", errors.Wrap(err, "failed to create credentials")
	}
	if reply.CredentialsID == "" {
		return "", errors.New("platform returned an empty credentials id")
	}
	return reply.CredentialsID, nil
}

// ComputeEnvRequest registers a pre-built AWS Batch compute environment.
type ComputeEnvRequest struct {
	Name          string
	Description   string
	WorkspaceID   int64
	CredentialsID string

	Region       string
	WorkDir      string
	HeadQueue    string
	ComputeQueue string

	HeadJobRole    string
	ComputeJobRole string
	ExecutionRole  string

	HeadJobCpus     int
	HeadJobMemoryMb int

	WaveEnabled   bool
	FusionEnabled bool

	PreRunScript   string
	PostRunScript  string
	NextflowConfig string
}

// CreateComputeEnv registers the compute environment and returns its
// identifier. The request config deliberately carries no forge section: its
// absence is what tells the platform to use the pre-built queues instead of
// provisioning its own.
func (c *Client) CreateComputeEnv(ctx context.Context, req ComputeEnvRequest) (string, error) {
	config := map[string]any{
		"region":         req.Region,
		"workDir":        req.WorkDir,
		"headQueue":      req.HeadQueue,
		"computeQueue":   req.ComputeQueue,
		"headJobRole":    req.HeadJobRole,
		"computeJobRole": req.ComputeJobRole,
		"executionRole":  req.ExecutionRole,
		"waveEnabled":    req.WaveEnabled,
		"fusion2Enabled": req.FusionEnabled,
	}
	if req.HeadJobCpus > 0 {
		config["headJobCpus"] = req.HeadJobCpus
	}
	if req.HeadJobMemoryMb > 0 {
		config["headJobMemoryMb"] = req.HeadJobMemoryMb
	}
	if req.PreRunScript != "" {
		config["preRunScript"] = req.PreRunScript
	}
	if req.PostRunScript != "" {
		config["postRunScript"] = req.PostRunScript
	}
	if req.NextflowConfig != "" {
		config["nextflowConfig"] = req.NextflowConfig
	}

	body := map[string]any{
		"computeEnv": map[string]any{
			"name":          req.Name,
			"description":   req.Description,
			"platform":      "aws-batch",
			"credentialsId": req.CredentialsID,
			"config":        config,
		},
	}

	var reply struct {
		ComputeEnvID string `json:"computeEnvId"`
	}
	if err := c.post(ctx, "/compute-envs", req.WorkspaceID, body, &reply); err != nil {
		return "", errors.Wrap(err, "failed to create compute environment")
	}
	if reply.ComputeEnvID == "" {
		return "", errors.New("platform returned an empty compute environment id")
	}
	return reply.ComputeEnvID, nil
}

func (c *Client) post(ctx context.Context, path string, workspaceID int64, body, reply any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to encode request body")
	}

	url := fmt.Sprintf("%s%s?workspaceId=%d", c.baseURL, path, workspaceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf("platform returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, reply); err != nil {
		return errors.Wrap(err, "failed to decode response body")
	}
	return nil
}

package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"aipe-market/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

const (
	workflowFile  = "main.yml"
	targetBranch  = "main"
	portfolioPath = "data/AIPEPortfolio_new.xlsx"
)

type APIHandler struct {
	cfg    *config.Config
	github *resty.Client
}

func SetupRoutes(r *gin.RouterGroup, cfg *config.Config) *APIHandler {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetBaseURL("https://api.github.com")

	handler := &APIHandler{
		cfg:    cfg,
		github: client,
	}

	// 批处理触发
	r.POST("/trigger", handler.TriggerReportRun)
	r.GET("/trigger", handler.methodNotAllowed)

	// 组合上传
	r.POST("/portfolio", handler.UploadPortfolio)

	return handler
}

type triggerRequest struct {
	DynamicList    []string `json:"dynamiclist"`
	DynamicHKList  []string `json:"dynamicHKlist"`
	DynamicETFList []string `json:"dynamicETFlist"`
}

// TriggerReportRun forwards the request's dynamic code lists to the
// out-of-process batch runner by dispatching its workflow. Workflow inputs
// only accept strings, so each list travels as a JSON-encoded string.
func (h *APIHandler) TriggerReportRun(c *gin.Context) {
	if h.cfg.GitHubToken == "" || h.cfg.GitHubRepoOwner == "" || h.cfg.GitHubRepoName == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server configuration is incomplete. Required environment variables are missing.",
		})
		return
	}

	var req triggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format in request body."})
			return
		}
	}

	inputs := map[string]string{"trigger_source": "api_call"}
	for key, list := range map[string][]string{
		"dynamiclist":    req.DynamicList,
		"dynamicHKlist":  req.DynamicHKList,
		"dynamicETFlist": req.DynamicETFList,
	} {
		if len(list) == 0 {
			continue
		}
		encoded, err := json.Marshal(list)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Could not encode %s.", key)})
			return
		}
		inputs[key] = string(encoded)
	}

	resp, err := h.github.R().
		SetHeader("Accept", "application/vnd.github.v3+json").
		SetHeader("Authorization", "token "+h.cfg.GitHubToken).
		SetBody(map[string]any{
			"ref":    targetBranch,
			"inputs": inputs,
		}).
		Post(fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/dispatches",
			h.cfg.GitHubRepoOwner, h.cfg.GitHubRepoName, workflowFile))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("An internal error occurred: %v", err)})
		return
	}

	// The dispatch API answers 204 No Content on success.
	if resp.StatusCode() == http.StatusNoContent {
		c.JSON(http.StatusAccepted, gin.H{
			"message":     "Workflow triggered successfully.",
			"details":     fmt.Sprintf("Check the 'Actions' tab in '%s/%s' for progress.", h.cfg.GitHubRepoOwner, h.cfg.GitHubRepoName),
			"sent_inputs": inputs,
		})
		return
	}
	c.JSON(resp.StatusCode(), gin.H{
		"error":           "Failed to trigger workflow.",
		"upstream_status": resp.StatusCode(),
		"upstream_body":   resp.String(),
	})
}

type portfolioUpload struct {
	PortfolioData string `json:"portfolioData"`
}

type refResponse struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

// UploadPortfolio accepts a base64-encoded portfolio workbook and commits
// it to a fresh branch so the merge tooling can take over.
func (h *APIHandler) UploadPortfolio(c *gin.Context) {
	if h.cfg.GitHubToken == "" || h.cfg.GitHubRepoOwner == "" || h.cfg.GitHubRepoName == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server configuration is incomplete. Required environment variables are missing.",
		})
		return
	}

	var req portfolioUpload
	if err := c.ShouldBindJSON(&req); err != nil || req.PortfolioData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'portfolioData' in request body"})
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.PortfolioData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "portfolioData is not valid base64"})
		return
	}

	repo := fmt.Sprintf("%s/%s", h.cfg.GitHubRepoOwner, h.cfg.GitHubRepoName)
	auth := "token " + h.cfg.GitHubToken

	// Branch off main rather than committing to it directly.
	var ref refResponse
	resp, err := h.github.R().
		SetHeader("Authorization", auth).
		SetResult(&ref).
		Get(fmt.Sprintf("/repos/%s/git/ref/heads/%s", repo, targetBranch))
	if err != nil || resp.StatusCode() != http.StatusOK || ref.Object.SHA == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not read the base branch.", "upstream_body": safeBody(resp)})
		return
	}

	now := time.Now().In(time.FixedZone("CST", 8*60*60))
	// random suffix keeps concurrent uploads in the same instant apart
	branch := fmt.Sprintf("update-portfolio-%s-%04x", now.Format("20060102150405"), rand.Intn(1<<16))
	resp, err = h.github.R().
		SetHeader("Authorization", auth).
		SetBody(map[string]string{
			"ref": "refs/heads/" + branch,
			"sha": ref.Object.SHA,
		}).
		Post(fmt.Sprintf("/repos/%s/git/refs", repo))
	if err != nil || resp.StatusCode() != http.StatusCreated {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not create the update branch.", "upstream_body": safeBody(resp)})
		return
	}

	resp, err = h.github.R().
		SetHeader("Authorization", auth).
		SetBody(map[string]string{
			"message": fmt.Sprintf("chore: Update portfolio data via web UI on %s", now.Format("2006-01-02 15:04")),
			"content": base64.StdEncoding.EncodeToString(content),
			"branch":  branch,
		}).
		Put(fmt.Sprintf("/repos/%s/contents/%s", repo, portfolioPath))
	if err != nil || (resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not commit the portfolio file.", "upstream_body": safeBody(resp)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully pushed new portfolio to branch '%s'. CI/CD will now take over.", branch),
	})
}

func (h *APIHandler) methodNotAllowed(c *gin.Context) {
	c.Header("Allow", "POST, OPTIONS")
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error": "Method not allowed. Please use a POST request.",
	})
}

func safeBody(resp *resty.Response) string {
	if resp == nil {
		return ""
	}
	return resp.String()
}

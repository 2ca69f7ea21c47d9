package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

const (
	listBlobsEndpoint    = "app_getBlobsByContainer"
	uploadBlobEndpoint   = "app_uploadBlob"
	downloadBlobEndpoint = "app_downloadBlobs"
)

func (c *Client) ListBlobs(ctx context.Context) (domain.BlobListing, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL(listBlobsEndpoint, nil), nil, "")
	if err != nil {
		return nil, err
	}

	listing, err := doJSON[domain.BlobListing](c, req)
	if err != nil {
		return nil, fmt.Errorf("listing blobs: %w", err)
	}
	return listing, nil
}

// UploadBlob sends one file as multipart form data with fields file and
// containerName.
func (c *Client) UploadBlob(ctx context.Context, container domain.ContainerName, file domain.UploadFile) (*domain.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.WriteField("containerName", string(container)); err != nil {
		return nil, fmt.Errorf("writing container field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.apiURL(uploadBlobEndpoint, nil), &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	res, err := doJSON[domain.UploadResult](c, req)
	if err != nil {
		return nil, fmt.Errorf("uploading blob %s: %w", file.Name, err)
	}
	return &res, nil
}

// DownloadBlob returns the blob body; the caller closes it.
func (c *Client) DownloadBlob(ctx context.Context, container domain.ContainerName, name string) (io.ReadCloser, error) {
	query := url.Values{}
	query.Set("containerName", string(container))
	query.Set("blobName", name)

	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL(downloadBlobEndpoint, query), nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading blob %s: %w", name, err)
	}
	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, fmt.Errorf("downloading blob %s: %w", name, apiError(resp))
	}
	return resp.Body, nil
}

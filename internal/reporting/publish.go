package reporting

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// PublishReport uploads a rendered report to the Azure Blob Storage container
// at containerURL, authenticating through the default Azure credential chain
// (environment, workload identity, managed identity, azd/az CLI). It returns
// the URL of the uploaded blob.
//
// Publishing is best-effort: callers treat failures as warnings and never let
// them change the exit code.
func PublishReport(ctx context.Context, containerURL, blobName string, content []byte) (string, error) {
	serviceURL, container, prefix, err := splitContainerURL(containerURL)
	if err != nil {
		return "", err
	}
	if prefix != "" {
		blobName = prefix + "/" + blobName
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return "", fmt.Errorf("building Azure credential: %w", err)
	}

	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return "", fmt.Errorf("creating blob client: %w", err)
	}

	if _, err := client.UploadBuffer(ctx, container, blobName, content, nil); err != nil {
		return "", fmt.Errorf("uploading report: %w", err)
	}

	return serviceURL + "/" + container + "/" + blobName, nil
}

// splitContainerURL splits https://<account>.blob.core.windows.net/<container>[/<prefix>]
// into the service URL, the container name, and an optional blob name prefix.
func splitContainerURL(raw string) (serviceURL, container, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing container URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", "", fmt.Errorf("container URL %q must be absolute", raw)
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", "", "", fmt.Errorf("container URL %q has no container name", raw)
	}
	container, prefix, _ = strings.Cut(path, "/")
	serviceURL = u.Scheme + "://" + u.Host
	return serviceURL, container, prefix, nil
}

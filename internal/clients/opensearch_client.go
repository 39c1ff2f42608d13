package clients

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/spacesedan/centiment-forwarder/internal/models"
)

// Opensearch stores each row as a document in the index <dataset>-<table>.
// The insert ID is the document ID, so redelivered rows overwrite themselves.
type Opensearch struct {
	Client *opensearch.Client
}

func NewOpensearch(cfg opensearch.Config) (*Opensearch, error) {
	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("[OpenSearchClient] failed to initialize client: %w", err)
	}
	return &Opensearch{Client: client}, nil
}

// NewOpensearchSigV4 builds a client that signs requests with the AWS
// credentials from awsCfg.
func NewOpensearchSigV4(awsCfg aws.Config, endpoint string) (*Opensearch, error) {
	return NewOpensearch(opensearch.Config{
		Addresses: []string{endpoint},
		Transport: NewSigV4Transport(awsCfg.Credentials, v4.NewSigner(), awsCfg.Region, "es"),
	})
}

// IndexName returns the index a dataset/table pair maps to.
func IndexName(dataset, table string) string {
	return strings.ToLower(dataset + "-" + table)
}

type sigV4Transport struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	next        http.RoundTripper
}

func NewSigV4Transport(creds aws.CredentialsProvider, signer *v4.Signer, region string, service string) http.RoundTripper {
	return &sigV4Transport{
		credentials: creds,
		signer:      signer,
		region:      region,
		service:     service,
		next:        http.DefaultTransport,
	}
}

func (t *sigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.credentials.Retrieve(req.Context())
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(req.Context())
	signedReq.Header.Del("Authorization")

	var body []byte
	if req.Body != nil {
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		signedReq.Body = io.NopCloser(bytes.NewReader(body))
	}
	sum := sha256.Sum256(body)

	err = t.signer.SignHTTP(
		req.Context(),
		creds,
		signedReq,
		hex.EncodeToString(sum[:]),
		t.service,
		t.region,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(signedReq)
}

// DatasetExists reports whether the cluster is reachable. OpenSearch has no
// dataset level, so cluster health stands in for it.
func (o *Opensearch) DatasetExists(ctx context.Context, dataset string) error {
	res, err := o.Client.Do(ctx, opensearchapi.ClusterHealthReq{}, nil)
	if err != nil {
		return fmt.Errorf("cluster health: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("cluster health: %s", res.Status())
	}
	return nil
}

func (o *Opensearch) TableExists(ctx context.Context, dataset, table string) error {
	index := IndexName(dataset, table)

	res, err := o.Client.Do(ctx, opensearchapi.IndicesExistsReq{Indices: []string{index}}, nil)
	if err != nil {
		return fmt.Errorf("index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("index %s: not found", index)
	}
	if res.IsError() {
		return fmt.Errorf("index %s: %s", index, res.Status())
	}
	return nil
}

func (o *Opensearch) Insert(ctx context.Context, dataset, table string, row models.InsertRow) error {
	index := IndexName(dataset, table)

	payload, err := json.Marshal(row.Body)
	if err != nil {
		slog.Error("[OpenSearchClient] failed to marshal row",
			slog.String("id", row.InsertID),
			slog.String("error", err.Error()))
		return err
	}

	req := opensearchapi.IndexReq{
		Index:      index,
		DocumentID: row.InsertID,
		Body:       bytes.NewReader(payload),
	}

	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		return fmt.Errorf("index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}

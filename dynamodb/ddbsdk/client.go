package ddbsdk

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/acksell/ddbtable/dynamodb/ddbiface"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const defaultMaxWait = 5 * time.Minute

// Client submits table definitions to DynamoDB, or to anything else that
// implements ddbiface.TableAPI such as ddbstore.Store.
type Client struct {
	api    ddbiface.TableAPI
	sts    STSAPI
	logger *log.Logger

	maxWait  time.Duration
	minDelay time.Duration
	maxDelay time.Duration
}

type Option func(*Client)

// WithLogger sets the logger for progress lines. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMaxWait bounds how long CreateTable and DeleteTable wait for the table
// to reach its final state.
func WithMaxWait(d time.Duration) Option {
	return func(c *Client) {
		c.maxWait = d
	}
}

// WithWaitDelay sets the polling delays of the table waiters. Zero values
// keep the SDK defaults.
func WithWaitDelay(minDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.minDelay = minDelay
		c.maxDelay = maxDelay
	}
}

// WithSTS sets the client used by CallerIdentity.
func WithSTS(api STSAPI) Option {
	return func(c *Client) {
		c.sts = api
	}
}

func New(api ddbiface.TableAPI, opts ...Option) *Client {
	c := &Client{
		api:     api,
		logger:  log.Default(),
		maxWait: defaultMaxWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config selects the AWS account and endpoint to talk to.
type Config struct {
	Region string
	// Endpoint overrides the DynamoDB endpoint, e.g. http://localhost:8000
	// for DynamoDB Local.
	Endpoint string
	Profile  string
}

// LoadAWSConfig resolves cfg with the default credential chain. A custom
// endpoint without a profile gets static dummy credentials, which is what
// DynamoDB Local expects.
func LoadAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	} else if cfg.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewFromConfig creates a client for a real (or DynamoDB Local) endpoint.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	api := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	opts = append([]Option{WithSTS(sts.NewFromConfig(awsCfg))}, opts...)
	return New(api, opts...), nil
}

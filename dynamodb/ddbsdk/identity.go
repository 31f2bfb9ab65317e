package ddbsdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

var _ STSAPI = (*sts.Client)(nil)

// Identity is the AWS principal tables will be created under.
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

func (i Identity) String() string {
	return fmt.Sprintf("account %s (%s)", i.Account, i.Arn)
}

// CallerIdentity reports the account the client's credentials belong to.
// Clients built with New have no STS client unless WithSTS is given.
func (c *Client) CallerIdentity(ctx context.Context) (Identity, error) {
	if c.sts == nil {
		return Identity{}, errors.New("no sts client configured")
	}
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("get caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

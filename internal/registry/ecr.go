// Package registry talks to AWS ECR: short-lived engine credentials before
// push/pull, image listings, existence checks, and server-side re-tagging of
// the per-environment floating tags.
package registry

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/example/hokusai/internal/config"
	"github.com/google/go-containerregistry/pkg/name"
)

// api is the slice of the ECR client this package uses; tests substitute a
// fake.
type api interface {
	GetAuthorizationToken(ctx context.Context, in *ecr.GetAuthorizationTokenInput, opts ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
	DescribeRepositories(ctx context.Context, in *ecr.DescribeRepositoriesInput, opts ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	CreateRepository(ctx context.Context, in *ecr.CreateRepositoryInput, opts ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
	DescribeImages(ctx context.Context, in *ecr.DescribeImagesInput, opts ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error)
	BatchGetImage(ctx context.Context, in *ecr.BatchGetImageInput, opts ...func(*ecr.Options)) (*ecr.BatchGetImageOutput, error)
	PutImage(ctx context.Context, in *ecr.PutImageInput, opts ...func(*ecr.Options)) (*ecr.PutImageOutput, error)
}

type Client struct {
	ecr        api
	repository string // repository name within the registry
	uri        string // <account>.dkr.ecr.<region>.amazonaws.com/<name>
}

// New builds a Client for the project's registry using the ambient AWS
// credential chain. The derived repository reference is validated up front
// so a bad account id or region fails here, not at the first API call.
func New(ctx context.Context, cfg *config.ProjectConfig) (*Client, error) {
	if _, err := name.NewRepository(cfg.RegistryURI()); err != nil {
		return nil, fmt.Errorf("invalid registry reference %s: %w", cfg.RegistryURI(), err)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AwsEcrRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return &Client{
		ecr:        ecr.NewFromConfig(awsCfg),
		repository: cfg.ProjectName,
		uri:        cfg.RegistryURI(),
	}, nil
}

// newWithAPI wires a Client over a caller-provided ECR API (tests).
func newWithAPI(a api, repository, uri string) *Client {
	return &Client{ecr: a, repository: repository, uri: uri}
}

// RepositoryURI returns the fully qualified repository this client manages.
func (c *Client) RepositoryURI() string { return c.uri }

// Credentials obtains a short-lived engine login for the registry. The
// returned username is always "AWS"; the password is the decoded token.
func (c *Client) Credentials(ctx context.Context) (username, password, server string, err error) {
	out, err := c.ecr.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return "", "", "", fmt.Errorf("get ECR authorization token: %w", err)
	}
	if len(out.AuthorizationData) == 0 {
		return "", "", "", errors.New("get ECR authorization token: empty response")
	}
	data := out.AuthorizationData[0]
	decoded, err := base64.StdEncoding.DecodeString(aws.ToString(data.AuthorizationToken))
	if err != nil {
		return "", "", "", fmt.Errorf("decode ECR authorization token: %w", err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", "", errors.New("malformed ECR authorization token")
	}
	return username, password, aws.ToString(data.ProxyEndpoint), nil
}

// EnsureRepository creates the project repository when it does not exist yet.
func (c *Client) EnsureRepository(ctx context.Context) error {
	_, err := c.ecr.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{c.repository},
	})
	if err == nil {
		return nil
	}
	var notFound *ecrtypes.RepositoryNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe repository %s: %w", c.repository, err)
	}
	if _, err := c.ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(c.repository),
	}); err != nil {
		return fmt.Errorf("create repository %s: %w", c.repository, err)
	}
	return nil
}

// RepositoryExists reports whether the project repository is reachable.
func (c *Client) RepositoryExists(ctx context.Context) (bool, error) {
	_, err := c.ecr.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{c.repository},
	})
	if err == nil {
		return true, nil
	}
	var notFound *ecrtypes.RepositoryNotFoundException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("describe repository %s: %w", c.repository, err)
}

// Image is one pushed image as reported by the registry.
type Image struct {
	Tags     []string
	Digest   string
	PushedAt time.Time
}

// ListImages returns the repository's images, newest first.
func (c *Client) ListImages(ctx context.Context) ([]Image, error) {
	var images []Image
	var nextToken *string
	for {
		out, err := c.ecr.DescribeImages(ctx, &ecr.DescribeImagesInput{
			RepositoryName: aws.String(c.repository),
			NextToken:      nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("list images in %s: %w", c.repository, err)
		}
		for _, detail := range out.ImageDetails {
			img := Image{
				Tags:   detail.ImageTags,
				Digest: aws.ToString(detail.ImageDigest),
			}
			if detail.ImagePushedAt != nil {
				img.PushedAt = *detail.ImagePushedAt
			}
			images = append(images, img)
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].PushedAt.After(images[j].PushedAt)
	})
	return images, nil
}

// TagExists reports whether the repository holds an image with the tag.
func (c *Client) TagExists(ctx context.Context, tag string) (bool, error) {
	_, err := c.ecr.DescribeImages(ctx, &ecr.DescribeImagesInput{
		RepositoryName: aws.String(c.repository),
		ImageIds:       []ecrtypes.ImageIdentifier{{ImageTag: aws.String(tag)}},
	})
	if err == nil {
		return true, nil
	}
	var notFound *ecrtypes.ImageNotFoundException
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("describe image %s:%s: %w", c.repository, tag, err)
}

// Retag points aliasTag at the image currently tagged sourceTag. The re-tag
// happens server-side (manifest re-put), so no image bytes move.
func (c *Client) Retag(ctx context.Context, sourceTag, aliasTag string) error {
	out, err := c.ecr.BatchGetImage(ctx, &ecr.BatchGetImageInput{
		RepositoryName: aws.String(c.repository),
		ImageIds:       []ecrtypes.ImageIdentifier{{ImageTag: aws.String(sourceTag)}},
	})
	if err != nil {
		return fmt.Errorf("get manifest for %s:%s: %w", c.repository, sourceTag, err)
	}
	if len(out.Images) == 0 {
		return fmt.Errorf("no image found for %s:%s", c.repository, sourceTag)
	}
	_, err = c.ecr.PutImage(ctx, &ecr.PutImageInput{
		RepositoryName: aws.String(c.repository),
		ImageManifest:  out.Images[0].ImageManifest,
		ImageTag:       aws.String(aliasTag),
	})
	if err != nil {
		var already *ecrtypes.ImageAlreadyExistsException
		if errors.As(err, &already) {
			// Alias already points at this manifest.
			return nil
		}
		return fmt.Errorf("retag %s:%s as %s: %w", c.repository, sourceTag, aliasTag, err)
	}
	return nil
}

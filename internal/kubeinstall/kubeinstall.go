// Package kubeinstall implements `hokusai configure`: it installs a pinned
// kubectl release and fetches the organization's kubeconfig from S3.
package kubeinstall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/example/hokusai/internal/ui"
	homedir "github.com/mitchellh/go-homedir"
)

const kubectlReleaseURL = "https://storage.googleapis.com/kubernetes-release/release/v%s/bin/%s/amd64/kubectl"

type Options struct {
	KubectlVersion  string
	S3Bucket        string
	S3Key           string
	Platform        string // darwin or linux; defaults to the local OS
	InstallTo       string // kubectl binary directory
	InstallConfigTo string // kubeconfig directory
}

// Normalize fills defaults and rejects unsupported platforms.
func (o *Options) Normalize() error {
	if o.KubectlVersion == "" {
		return fmt.Errorf("--kubectl-version is required")
	}
	if o.S3Bucket == "" || o.S3Key == "" {
		return fmt.Errorf("--s3-bucket and --s3-key are required")
	}
	if o.Platform == "" {
		o.Platform = runtime.GOOS
	}
	if o.Platform != "darwin" && o.Platform != "linux" {
		return fmt.Errorf("unsupported platform %q (expected darwin or linux)", o.Platform)
	}
	if o.InstallTo == "" {
		o.InstallTo = "/usr/local/bin"
	}
	if o.InstallConfigTo == "" {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		o.InstallConfigTo = filepath.Join(home, ".kube")
	}
	return nil
}

type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Installer struct {
	s3   s3API
	http *http.Client
}

// New builds an Installer using the ambient AWS credential chain.
func New(ctx context.Context) (*Installer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return &Installer{s3: s3.NewFromConfig(awsCfg), http: http.DefaultClient}, nil
}

func newWithClients(s s3API, h *http.Client) *Installer {
	return &Installer{s3: s, http: h}
}

// Run installs kubectl and the kubeconfig per opts (already normalized).
func (i *Installer) Run(ctx context.Context, o *ui.Output, opts Options) error {
	if err := i.installKubectl(ctx, o, opts); err != nil {
		return err
	}
	if err := i.installKubeconfig(ctx, o, opts); err != nil {
		return err
	}
	return nil
}

func (i *Installer) installKubectl(ctx context.Context, o *ui.Output, opts Options) error {
	url := fmt.Sprintf(kubectlReleaseURL, opts.KubectlVersion, opts.Platform)
	o.Tracef("downloading %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download kubectl: %w", err)
	}
	resp, err := i.http.Do(req)
	if err != nil {
		return fmt.Errorf("download kubectl: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download kubectl: %s returned %s", url, resp.Status)
	}

	dest := filepath.Join(opts.InstallTo, "kubectl")
	if err := writeFile(dest, resp.Body, 0o755); err != nil {
		return fmt.Errorf("install kubectl to %s: %w", dest, err)
	}
	o.Green("Installed kubectl %s to %s", opts.KubectlVersion, dest)
	return nil
}

func (i *Installer) installKubeconfig(ctx context.Context, o *ui.Output, opts Options) error {
	o.Tracef("fetching s3://%s/%s", opts.S3Bucket, opts.S3Key)
	out, err := i.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(opts.S3Bucket),
		Key:    aws.String(opts.S3Key),
	})
	if err != nil {
		return fmt.Errorf("fetch s3://%s/%s: %w", opts.S3Bucket, opts.S3Key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(opts.InstallConfigTo, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.InstallConfigTo, err)
	}
	dest := filepath.Join(opts.InstallConfigTo, "config")
	if err := writeFile(dest, out.Body, 0o600); err != nil {
		return fmt.Errorf("install kubeconfig to %s: %w", dest, err)
	}
	o.Green("Installed kubeconfig to %s", dest)
	return nil
}

func writeFile(path string, src io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Package remoteenv manages the application's runtime environment variables.
// The set lives entirely in a ConfigMap named <project>-environment inside
// the selected cluster context; this tool only issues get/set/delete calls
// against it and keeps no local copy.
package remoteenv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/example/hokusai/internal/ui"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// cluster is the slice of the kubectl adapter this package needs.
type cluster interface {
	GetJSON(ctx context.Context, o *ui.Output, kind, name, selector string) ([]byte, error)
	ApplyStdin(ctx context.Context, o *ui.Output, manifest []byte) error
	CreateConfigMap(ctx context.Context, o *ui.Output, name string) error
	DeleteConfigMap(ctx context.Context, o *ui.Output, name string) error
}

type Store struct {
	cluster cluster
	project string
}

func New(c cluster, project string) *Store {
	return &Store{cluster: c, project: project}
}

// Name returns the ConfigMap this store manages.
func (s *Store) Name() string {
	return s.project + "-environment"
}

// Pair is one KEY=VALUE entry. Order is preserved; keys are unique within a
// set.
type Pair struct {
	Key   string
	Value string
}

// ParsePairs validates KEY=VALUE arguments.
func ParsePairs(args []string) ([]Pair, error) {
	seen := map[string]bool{}
	pairs := make([]Pair, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed environment variable %q: expected KEY=VALUE", arg)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}

// Create creates the (empty) environment ConfigMap.
func (s *Store) Create(ctx context.Context, o *ui.Output) error {
	if err := s.cluster.CreateConfigMap(ctx, o, s.Name()); err != nil {
		return fmt.Errorf("create configmap %s: %w", s.Name(), err)
	}
	return nil
}

// Delete removes the environment ConfigMap.
func (s *Store) Delete(ctx context.Context, o *ui.Output) error {
	if err := s.cluster.DeleteConfigMap(ctx, o, s.Name()); err != nil {
		return fmt.Errorf("delete configmap %s: %w", s.Name(), err)
	}
	return nil
}

// Get returns the values for the requested keys, or the whole set when no
// keys are given. Requested keys missing from the set are returned in absent,
// preserving request order.
func (s *Store) Get(ctx context.Context, o *ui.Output, keys ...string) (values []Pair, absent []string, err error) {
	data, err := s.load(ctx, o)
	if err != nil {
		return nil, nil, err
	}
	if len(keys) == 0 {
		for key := range data {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}
	for _, key := range keys {
		if value, ok := data[key]; ok {
			values = append(values, Pair{Key: key, Value: value})
		} else {
			absent = append(absent, key)
		}
	}
	return values, absent, nil
}

// Set writes the given pairs into the set, overwriting existing keys.
func (s *Store) Set(ctx context.Context, o *ui.Output, pairs []Pair) error {
	data, err := s.load(ctx, o)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		data[p.Key] = p.Value
	}
	return s.apply(ctx, o, data)
}

// Unset removes the given keys. Removing an absent key is not an error; the
// end state is the same either way.
func (s *Store) Unset(ctx context.Context, o *ui.Output, keys ...string) error {
	data, err := s.load(ctx, o)
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(data, key)
	}
	return s.apply(ctx, o, data)
}

func (s *Store) load(ctx context.Context, o *ui.Output) (map[string]string, error) {
	raw, err := s.cluster.GetJSON(ctx, o, "configmap", s.Name(), "")
	if err != nil {
		return nil, fmt.Errorf("get configmap %s (has `hokusai env create` been run?): %w", s.Name(), err)
	}
	var cm corev1.ConfigMap
	if err := json.Unmarshal(raw, &cm); err != nil {
		return nil, fmt.Errorf("parse configmap %s: %w", s.Name(), err)
	}
	if cm.Data == nil {
		return map[string]string{}, nil
	}
	return cm.Data, nil
}

func (s *Store) apply(ctx context.Context, o *ui.Output, data map[string]string) error {
	cm := corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: metav1.ObjectMeta{Name: s.Name()},
		Data:       data,
	}
	manifest, err := json.Marshal(&cm)
	if err != nil {
		return fmt.Errorf("serialize configmap %s: %w", s.Name(), err)
	}
	if err := s.cluster.ApplyStdin(ctx, o, manifest); err != nil {
		return fmt.Errorf("apply configmap %s: %w", s.Name(), err)
	}
	return nil
}

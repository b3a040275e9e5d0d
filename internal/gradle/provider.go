package gradle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gcf/internal/errors"
)

// Provider opens a connection to the build model of a project.
type Provider interface {
	Connect(ctx context.Context, projectRoot string) (Connection, error)
}

// Connection yields module tree snapshots. Callers must Close it on every path.
type Connection interface {
	Snapshot(ctx context.Context) (*Project, error)
	Close() error
}

// StaticProvider serves a fixed project for any root.
type StaticProvider struct {
	Project *Project
	// Err, when set, is returned from Connect.
	Err error
}

func (s *StaticProvider) Connect(_ context.Context, projectRoot string) (Connection, error) {
	if s.Err != nil {
		return nil, errors.NewProviderConnectionError(projectRoot, s.Err)
	}
	if s.Project == nil || s.Project.Root == nil {
		return nil, errors.NewProviderConnectionError(projectRoot, fmt.Errorf("no project model"))
	}
	return &staticConnection{project: s.Project}, nil
}

type staticConnection struct {
	project *Project
	closed  bool
}

func (c *staticConnection) Snapshot(context.Context) (*Project, error) {
	if c.closed {
		return nil, errors.New(errors.ProviderConnection, "connection closed", nil)
	}
	return c.project, nil
}

func (c *staticConnection) Close() error {
	c.closed = true
	return nil
}

// FileProvider reads a snapshot written by WriteSnapshot. A relative Path is
// resolved against the project root.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Connect(_ context.Context, projectRoot string) (Connection, error) {
	path := f.Path
	if !filepath.IsAbs(path) && projectRoot != "" {
		path = filepath.Join(projectRoot, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewProviderConnectionError(projectRoot, err)
	}
	return &fileConnection{path: path, root: projectRoot}, nil
}

type fileConnection struct {
	path string
	root string
}

func (c *fileConnection) Snapshot(context.Context) (*Project, error) {
	p, err := LoadSnapshot(c.path)
	if err != nil {
		return nil, errors.NewProviderConnectionError(c.root, err)
	}
	return p, nil
}

func (c *fileConnection) Close() error { return nil }

// SnapshotFormat is a snapshot serialization.
type SnapshotFormat string

const (
	FormatJSON SnapshotFormat = "json"
	FormatYAML SnapshotFormat = "yaml"
	FormatTOML SnapshotFormat = "toml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) SnapshotFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// MarshalSnapshot encodes p in the given format.
func MarshalSnapshot(p *Project, format SnapshotFormat) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(p)
	case FormatTOML:
		return toml.Marshal(p)
	case FormatJSON, "":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}

// UnmarshalSnapshot decodes a snapshot and checks it has a root module.
func UnmarshalSnapshot(data []byte, format SnapshotFormat) (*Project, error) {
	var p Project
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	case FormatJSON, "":
		err = json.Unmarshal(data, &p)
	default:
		err = fmt.Errorf("unknown snapshot format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", format, err)
	}
	if p.Root == nil {
		return nil, fmt.Errorf("snapshot has no root module")
	}
	p.normalize()
	return &p, nil
}

// LoadSnapshot reads a snapshot file, choosing the format by extension.
func LoadSnapshot(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalSnapshot(data, FormatFromPath(path))
}

// WriteSnapshot writes p to path, choosing the format by extension.
func WriteSnapshot(p *Project, path string) error {
	data, err := MarshalSnapshot(p, FormatFromPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Fetch connects, takes one snapshot, and always closes the connection.
func Fetch(ctx context.Context, provider Provider, projectRoot string) (_ *Project, err error) {
	conn, err := provider.Connect(ctx, projectRoot)
	if err != nil {
		return nil, asProviderError(projectRoot, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = errors.NewProviderConnectionError(projectRoot, cerr)
		}
	}()
	project, err := conn.Snapshot(ctx)
	if err != nil {
		return nil, asProviderError(projectRoot, err)
	}
	if project == nil || project.Root == nil {
		return nil, errors.NewProviderConnectionError(projectRoot, fmt.Errorf("provider returned no root module"))
	}
	return project, nil
}

func asProviderError(projectRoot string, err error) error {
	if errors.CodeOf(err) == errors.ProviderConnection {
		return err
	}
	return errors.NewProviderConnectionError(projectRoot, err)
}

package ugit

import (
	"strings"

	"github.com/pkg/errors"
)

// TreeEntry is one parsed line of a tree object's payload.
type TreeEntry struct {
	Type ObjectType
	OID  string
	Name string
}

// ParseTree reads the tree object named by oid and returns its
// entries in on-disk order. An empty oid yields an empty slice,
// tolerating "no tree yet" (e.g. the parent of an initial commit).
func (r *Repository) ParseTree(oid string) ([]TreeEntry, error) {
	if oid == "" {
		return nil, nil
	}

	payload, err := r.GetObject(oid, TypeTree)
	if err != nil {
		return nil, err
	}

	text := string(payload)
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	entries := make([]TreeEntry, 0, len(lines))
	for _, line := range lines {
		fields := strings.SplitN(line, " ", 3)
		if len(fields) != 3 {
			return nil, errors.Wrapf(ErrCorruptObject, "tree %s: malformed entry %q", oid, line)
		}
		entries = append(entries, TreeEntry{
			Type: ObjectType(fields[0]),
			OID:  fields[1],
			Name: fields[2],
		})
	}
	return entries, nil
}

// FlattenTree recursively walks the tree named by oid and returns a
// map from full path (joined with "/", relative to basePath) to blob
// OID. Entry names containing "/" or equal to "." / ".." indicate
// corruption and are rejected.
func (r *Repository) FlattenTree(oid string, basePath string) (Index, error) {
	result := Index{}

	entries, err := r.ParseTree(oid)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if strings.Contains(e.Name, "/") || e.Name == "." || e.Name == ".." {
			return nil, errors.Wrapf(ErrCorruptObject, "tree %s: invalid entry name %q", oid, e.Name)
		}

		full := joinPath(basePath, e.Name)
		switch e.Type {
		case TypeBlob:
			result[full] = e.OID
		case TypeTree:
			sub, err := r.FlattenTree(e.OID, full)
			if err != nil {
				return nil, err
			}
			result.Update(sub)
		default:
			return nil, errors.Wrapf(ErrCorruptObject, "tree %s: unknown entry type %q", oid, e.Type)
		}
	}
	return result, nil
}

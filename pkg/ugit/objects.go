package ugit

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ObjectType discriminates the three object kinds. The on-disk framing
// ("type\x00payload") is the only place a kind is recorded; widening
// this set requires versioning that framing.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

const objectsDirName = "objects"

// objectPath returns the on-disk path for oid, one file per object
// under <repo>/.ugit/objects.
func (r *Repository) objectPath(oid string) string {
	return filepath.Join(r.GitDir, objectsDirName, oid)
}

// HashObject frames payload as "type\x00payload", hashes the framed
// bytes with SHA-1, and persists it under its OID if not already
// present. Idempotent: hashing the same (type, payload) twice writes
// once and returns the same OID both times.
func (r *Repository) HashObject(payload []byte, typ ObjectType) (string, error) {
	oid, framed := hashOnly(payload, typ)

	path := r.objectPath(oid)
	if _, err := os.Stat(path); err == nil {
		return oid, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(ErrIOError, "create objects dir: %v", err)
	}
	if err := os.WriteFile(path, framed, 0o644); err != nil {
		return "", errors.Wrapf(ErrIOError, "write object %s: %v", oid, err)
	}
	return oid, nil
}

// GetObject reads the object named by oid and returns its payload. If
// expected is non-empty, the stored type must match it exactly.
func (r *Repository) GetObject(oid string, expected ObjectType) ([]byte, error) {
	raw, err := os.ReadFile(r.objectPath(oid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrObjectNotFound, "%s", oid)
		}
		return nil, errors.Wrapf(ErrIOError, "read object %s: %v", oid, err)
	}

	typ, payload, err := splitObject(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptObject, "object %s: %v", oid, err)
	}
	if expected != "" && typ != expected {
		return nil, errors.Wrapf(ErrTypeMismatch, "object %s: expected %s, got %s", oid, expected, typ)
	}
	return payload, nil
}

// ObjectExists reports whether oid is present in the local store.
func (r *Repository) ObjectExists(oid string) bool {
	_, err := os.Stat(r.objectPath(oid))
	return err == nil
}

// CopyObjectTo copies oid's on-disk object file into the peer
// repository's object store. It is a no-op if the peer already has
// it, per the Remote contract.
func (r *Repository) CopyObjectTo(oid string, peer *Repository) error {
	return copyObjectFile(r.objectPath(oid), peer.objectPath(oid))
}

// CopyObjectFrom copies oid's object file from a peer repository into
// this one. No-op if already present locally.
func (r *Repository) CopyObjectFrom(oid string, peer *Repository) error {
	return copyObjectFile(peer.objectPath(oid), r.objectPath(oid))
}

func copyObjectFile(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(ErrIOError, "read %s: %v", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(ErrIOError, "create dir for %s: %v", dst, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.Wrapf(ErrIOError, "write %s: %v", dst, err)
	}
	return nil
}

// hashOnly computes the OID and framed bytes for payload/typ without
// touching the filesystem, shared by HashObject and the integrity
// walk's rehash check.
func hashOnly(payload []byte, typ ObjectType) (string, []byte) {
	framed := frameObject(typ, payload)
	sum := sha1.Sum(framed)
	return hex.EncodeToString(sum[:]), framed
}

// frameObject produces the bit-exact on-disk representation of an
// object: the ASCII type name, a single NUL, then the payload.
func frameObject(typ ObjectType, payload []byte) []byte {
	buf := make([]byte, 0, len(typ)+1+len(payload))
	buf = append(buf, []byte(typ)...)
	buf = append(buf, 0)
	buf = append(buf, payload...)
	return buf
}

// splitObject reverses frameObject, splitting at the first NUL byte
// only. Payloads may legally contain further NUL bytes.
func splitObject(raw []byte) (ObjectType, []byte, error) {
	idx := bytes.IndexByte(raw, 0)
	if idx < 0 {
		return "", nil, fmt.Errorf("missing type separator")
	}
	return ObjectType(raw[:idx]), raw[idx+1:], nil
}

// Package verify checks artifact integrity before it is catalogued.
//
// Two methods are supported:
//   - OpenPGP detached signatures (armored or binary) against a keyring
//   - SHA256 checksum files in sha256sum format ("<hex>  <filename>")
package verify

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Method indicates how an artifact was verified
type Method int

const (
	// MethodNone indicates no verification was performed
	MethodNone Method = iota
	// MethodGPG indicates OpenPGP signature verification
	MethodGPG
	// MethodSHA256 indicates SHA256 checksum verification
	MethodSHA256
)

// String returns the string representation of the verification method
func (m Method) String() string {
	switch m {
	case MethodGPG:
		return "GPG"
	case MethodSHA256:
		return "SHA256"
	case MethodNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Result contains the outcome of a verification attempt
type Result struct {
	Method  Method
	Success bool
	Error   error
	// Signer is the primary identity of the signing key (GPG only)
	Signer string
}

func failed(method Method, err error) (*Result, error) {
	return &Result{Method: method, Success: false, Error: err}, err
}

// Signature verifies artifactPath against a detached signature made by a
// key in keyringPath.
func Signature(artifactPath, signaturePath, keyringPath string) (*Result, error) {
	keyring, err := LoadKeyring(keyringPath)
	if err != nil {
		return failed(MethodGPG, fmt.Errorf("load keyring: %w", err))
	}

	artifactFile, err := os.Open(artifactPath)
	if err != nil {
		return failed(MethodGPG, fmt.Errorf("open artifact: %w", err))
	}
	defer artifactFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return failed(MethodGPG, fmt.Errorf("open signature: %w", err))
	}
	defer sigFile.Close()

	// Try armored first
	signer, err := openpgp.CheckArmoredDetachedSignature(keyring, artifactFile, sigFile, nil)
	if err != nil {
		if _, seekErr := artifactFile.Seek(0, io.SeekStart); seekErr != nil {
			return failed(MethodGPG, fmt.Errorf("rewind artifact: %w", seekErr))
		}
		if _, seekErr := sigFile.Seek(0, io.SeekStart); seekErr != nil {
			return failed(MethodGPG, fmt.Errorf("rewind signature: %w", seekErr))
		}
		signer, err = openpgp.CheckDetachedSignature(keyring, artifactFile, sigFile, nil)
	}
	if err != nil {
		return failed(MethodGPG, fmt.Errorf("verify signature: %w", err))
	}

	result := &Result{Method: MethodGPG, Success: true}
	if signer != nil {
		for name := range signer.Identities {
			result.Signer = name
			break
		}
	}
	return result, nil
}

// Checksum verifies artifactPath against the entry for its base name in a
// sha256sum-format file.
func Checksum(artifactPath, checksumsPath string) (*Result, error) {
	actual, err := FileSHA256(artifactPath)
	if err != nil {
		return failed(MethodSHA256, fmt.Errorf("calculate checksum: %w", err))
	}

	expected, err := findChecksum(checksumsPath, filepath.Base(artifactPath))
	if err != nil {
		return failed(MethodSHA256, fmt.Errorf("find checksum: %w", err))
	}

	if !strings.EqualFold(actual, expected) {
		return failed(MethodSHA256, fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s", actual, expected))
	}

	return &Result{Method: MethodSHA256, Success: true}, nil
}

// LoadKeyring reads an armored or binary OpenPGP keyring.
func LoadKeyring(path string) (openpgp.EntityList, error) {
	keyringFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		// Try reading as non-armored keyring
		if _, seekErr := keyringFile.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// FileSHA256 returns the hex SHA256 digest of a file.
func FileSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for a specific filename in a checksum file
// Format: "abc123def456  filename" (binary-mode "*filename" accepted)
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		name := strings.TrimPrefix(parts[1], "*")
		if name == filename || filepath.Base(name) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}

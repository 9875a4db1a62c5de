package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"subgen/internal/config"
)

// Result is the outcome of a single environment check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// minWorkSpaceBytes is the free space the work directory needs before
// transcription output has somewhere to land.
const minWorkSpaceBytes = 1 << 30 // 1 GiB

// CheckEngineBinary verifies the transcription engine is on PATH.
func CheckEngineBinary(binary string) Result {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Result{
			Name:   "Transcription engine",
			Detail: fmt.Sprintf("%s not found on PATH (install whisper-ctranslate2)", binary),
		}
	}
	return Result{Name: "Transcription engine", Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies that the directory exists and is readable
// and writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least
// minBytes available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/float64(1<<30))
	if free < minBytes {
		return Result{Name: name, Detail: detail + " below minimum"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// Run evaluates every environment check for the given config.
func Run(cfg *config.Config) []Result {
	results := []Result{
		CheckEngineBinary(cfg.WhisperBinary()),
		CheckDirectoryAccess("Media base directory", cfg.Paths.BaseDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if _, err := os.Stat(cfg.Paths.WorkDir); err == nil {
		results = append(results, CheckFreeSpace("Work directory space", cfg.Paths.WorkDir, minWorkSpaceBytes))
	}
	return results
}

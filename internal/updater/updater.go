// Package updater checks GitHub for a newer planfold release. The check is
// best-effort and informational only: planfold never replaces its own
// binary, it just prints a notice so the operator can update.
package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	githubRepo   = "planfold/planfold"
	releaseURL   = "https://api.github.com/repos/" + githubRepo + "/releases/latest"
	checkTimeout = 10 * time.Second
)

// For testing: allow overriding the release endpoint and HTTP client.
var (
	releaseEndpoint = releaseURL
	httpClient      = &http.Client{Timeout: checkTimeout}
)

// Result is the outcome of a version check.
type Result struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

type releaseInfo struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckVersion asks GitHub for the latest release and compares it to the
// running version. Network or decode failures yield a Result with
// UpdateAvailable=false; the check never blocks or breaks serving.
func CheckVersion(current string) Result {
	result := Result{CurrentVersion: strings.TrimPrefix(current, "v")}

	resp, err := httpClient.Get(releaseEndpoint)
	if err != nil {
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result
	}

	var release releaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return result
	}

	result.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	result.ReleaseURL = release.HTMLURL
	result.UpdateAvailable = newerThan(result.LatestVersion, result.CurrentVersion)
	return result
}

// newerThan reports whether version a is strictly newer than b, comparing
// dotted numeric segments. Non-numeric segments (and the "dev" build
// version) compare as zero, so a dev build always sees releases as newer.
func newerThan(a, b string) bool {
	if a == "" {
		return false
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			return av > bv
		}
	}
	return false
}

// Notice formats a one-line update notice, or "" when up to date.
func Notice(result Result) string {
	if !result.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf("Update available: v%s → v%s (%s)",
		result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
}

package maven

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/jarlens/pkg/fsutil"
)

// EnvLocalRepository names the environment variable that overrides the local
// repository location.
const EnvLocalRepository = "MAVEN_REPO_LOCAL"

// ResolveLocalRepository determines the local repository root. Precedence:
//
//  1. override, when non-empty
//  2. $MAVEN_REPO_LOCAL
//  3. <localRepository> from ~/.m2/settings.xml, then $M2_HOME/conf/settings.xml
//  4. ~/.m2/repository
//
// Only the localRepository element of settings.xml is consumed; a settings
// file that is missing or unparseable is skipped.
func ResolveLocalRepository(override string) (string, error) {
	if override != "" {
		return fsutil.ExpandHome(override)
	}
	if env := os.Getenv(EnvLocalRepository); env != "" {
		return fsutil.ExpandHome(env)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	candidates := []string{filepath.Join(home, ".m2", "settings.xml")}
	if m2 := os.Getenv("M2_HOME"); m2 != "" {
		candidates = append(candidates, filepath.Join(m2, "conf", "settings.xml"))
	}
	for _, path := range candidates {
		if repo := readSettingsLocalRepository(path, home); repo != "" {
			return repo, nil
		}
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

type settingsFile struct {
	LocalRepository string `xml:"localRepository"`
}

func readSettingsLocalRepository(path, home string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var s settingsFile
	if err := xml.Unmarshal(data, &s); err != nil {
		return ""
	}
	repo := strings.TrimSpace(s.LocalRepository)
	if repo == "" {
		return ""
	}
	repo = strings.ReplaceAll(repo, "${user.home}", home)
	if strings.HasPrefix(repo, "~") {
		repo = filepath.Join(home, strings.TrimPrefix(repo, "~"))
	}
	return filepath.Clean(repo)
}

package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"

	"github.com/satishbabariya/sqlkit/query/sqlgen"
)

var (
	// Version is the version of the CLI
	Version = "0.3.0"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// minServer is the oldest server release each engine is tested against.
var minServer = map[string]string{
	"sqlite":   "3.31.0",
	"postgres": "11.0",
	"mysql":    "5.7.0",
}

// Info holds version information
type Info struct {
	Version   string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("sqlkit version %s (%s %s, commit %s)", i.Version, i.Platform, i.GoVersion, i.GitCommit)
}

// CheckServer reports an error when server is older than the oldest release
// supported for engine. Engine aliases such as "sqlite3" are accepted;
// unknown engines are not checked.
func CheckServer(engine string, server *goversion.Version) error {
	if d, err := sqlgen.NewDialect(engine); err == nil {
		engine = d.Name()
	}
	min, ok := minServer[engine]
	if !ok || server == nil {
		return nil
	}
	want := goversion.Must(goversion.NewVersion(min))
	if server.Core().LessThan(want) {
		return fmt.Errorf("%s %s is older than the supported minimum %s", engine, server, want)
	}
	return nil
}

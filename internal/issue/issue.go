// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ProjectNotFoundId Id = iota + 1
	MetadataNotFoundId
	InvalidVersionId
	ReleaseNotesMissingId
	StagedChangesId
	CommandFailedId
	ToolNotFoundId
	NoArtifactsId
	ConfigLoadFailedId
	TargetExistsId
	PermissionDeniedId
	NotRepositoryId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# Project directory not found!

The path given to ` + "`packager push`" + ` does not exist.

## Things you can try:
- Check the path for typos; it is resolved relative to the current directory.
- Scaffold a new project first:
~~~
$ packager create ./mypkg
~~~`,
		docLinks: []HttpLink{"https://github.com/packager/packager#push"},
	}

	metadataNotFoundIssue = &Issue{
		id: MetadataNotFoundId,
		mdMsg: `
# Package metadata is missing!

A releasable project keeps its metadata next to the package sources:

~~~
<project>/
  package_name.txt        # distribution name, first line
  <name>/about/version.txt          # current version, e.g. 1.4.9
  <name>/about/on_pypi.txt          # "true" to build and upload
  <name>/about/version_history.md   # release table
~~~

## Things you can try:
- The package directory must have the same name as the project directory.
- Create the ` + "`about`" + ` directory with at least ` + "`version.txt`" + `.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#project-layout"},
	}

	invalidVersionIssue = &Issue{
		id: InvalidVersionId,
		mdMsg: `
# The version file cannot be parsed!

` + "`about/version.txt`" + ` must hold dot-separated integers such as ` + "`0.3.12`" + `.
Lines starting with ` + "`%`" + ` are treated as comments.

## Things you can try:
- Remove any pre-release suffix (` + "`1.0.0rc1`" + ` is not supported).
- Make sure the first non-comment line is the version.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#versioning"},
		extLinks: []HttpLink{"https://packaging.python.org/en/latest/specifications/version-specifiers/"},
	}

	releaseNotesMissingIssue = &Issue{
		id: ReleaseNotesMissingId,
		mdMsg: `
# Release notes are required!

Updating the version history, committing or tagging needs a message.

## Things you can try:
- Pass the notes after the project path:
~~~
$ packager push ./mypkg Fix the frobnicator
~~~
- Or run a dry run, which skips history, commit and tag:
~~~
$ packager push ./mypkg --dry-run
~~~`,
		docLinks: []HttpLink{"https://github.com/packager/packager#push"},
	}

	stagedChangesIssue = &Issue{
		id: StagedChangesId,
		mdMsg: `
# Staged changes found!

The repository has changes in the index. A release commit would silently
include them, so the push was aborted before anything was changed.

## Things you can try:
~~~
$ git status
$ git commit -m "..."    # or: git restore --staged <file>
~~~`,
		docLinks: []HttpLink{"https://github.com/packager/packager#preconditions"},
		extLinks: []HttpLink{"https://git-scm.com/docs/git-status"},
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# An external command failed!

One of the release steps ran a tool that exited with an error or wrote to
standard error. The steps that already ran are not rolled back.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see every command and its output.
- Run the failing command by hand inside the project directory.
- Use ` + "`--dry-run`" + ` to check the plan without touching git or the index.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#troubleshooting"},
	}

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# A required tool is not installed!

Releasing uses ` + "`git`" + `, a Python interpreter and ` + "`twine`" + `.

## Things you can try:
~~~
$ git --version
$ python3 --version
$ python3 -m pip install --user twine build
~~~
- Point ` + "`push.python`" + ` or ` + "`push.upload_command`" + ` at the right binaries in your config.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#requirements"},
		extLinks: []HttpLink{"https://twine.readthedocs.io/"},
	}

	noArtifactsIssue = &Issue{
		id: NoArtifactsId,
		mdMsg: `
# Nothing to upload!

The build step finished but ` + "`dist/`" + ` is empty.

## Things you can try:
- Check the output of the build with ` + "`--verbose`" + `.
- Set ` + "`push.build_command`" + ` if the project uses a custom build.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#build"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file is not valid CUE or does not match the schema.

## Things you can try:
- Inspect the effective configuration:
~~~
$ packager config show
~~~
- Regenerate a default file:
~~~
$ packager config init --force
~~~`,
		docLinks: []HttpLink{"https://github.com/packager/packager#configuration"},
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	targetExistsIssue = &Issue{
		id: TargetExistsId,
		mdMsg: `
# Target directory already exists!

` + "`packager create`" + ` never overwrites an existing path.

## Things you can try:
- Pick a new directory name.
- Remove the old directory if it is no longer needed.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#create"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A file in the project or the trash directory could not be written.

## Things you can try:
- Check the ownership of the project directory.
- Set ` + "`push.trash_dir`" + ` to a writable location.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#troubleshooting"},
	}

	notRepositoryIssue = &Issue{
		id: NotRepositoryId,
		mdMsg: `
# The project is not under git!

Every push checks ` + "`git status`" + ` for staged changes, and real releases
commit, tag and push. The project directory must be inside a git work tree.

## Things you can try:
- Initialise a repository and add a remote:
~~~
$ git init
$ git remote add origin <url>
~~~
- New projects can start with one: ` + "`packager create <path> --git-init`" + `.`,
		docLinks: []HttpLink{"https://github.com/packager/packager#push"},
	}

	issues = map[Id]*Issue{
		projectNotFoundIssue.Id():     projectNotFoundIssue,
		metadataNotFoundIssue.Id():    metadataNotFoundIssue,
		invalidVersionIssue.Id():      invalidVersionIssue,
		releaseNotesMissingIssue.Id(): releaseNotesMissingIssue,
		stagedChangesIssue.Id():       stagedChangesIssue,
		commandFailedIssue.Id():       commandFailedIssue,
		toolNotFoundIssue.Id():        toolNotFoundIssue,
		noArtifactsIssue.Id():         noArtifactsIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		targetExistsIssue.Id():        targetExistsIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		notRepositoryIssue.Id():       notRepositoryIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

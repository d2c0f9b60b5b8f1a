// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	ConfigFileNotFoundId Id = iota + 1
	NoConfigNameId
	NoExtensionsId
	ConfigLoadFailedId
	ExtendsCycleId
	LoaderUnavailableId
	FlagsResolutionFailedId
	RespawnFailedId
	RespawnLoopId
	ModuleNotFoundId
	SchemaValidationFailedId
	SettingsInvalidId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

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

// Render renders the issue Markdown, plus a "See also" list when links exist.
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	configFileNotFoundIssue = &Issue{
		id: ConfigFileNotFoundId,
		mdMsg: `
# No config file found!

liftoff searched for the tool's config file but none of the candidates exist.

## Search order
1. The path given with ` + "`--config`" + ` or ` + "`LIFTOFF_CONFIG`" + `
2. The directory given with ` + "`--cwd`" + ` or ` + "`LIFTOFF_CWD`" + `
3. The current directory and each of its parents
4. Every configured search path and its parents

## Things you can try
- Check the file name matches the configured ` + "`config_name`" + ` and one of the extensions
- Point directly at the file:
~~~
$ liftoff run --config ./path/to/toolfile.js -- node script.js
~~~`,
	}

	noConfigNameIssue = &Issue{
		id: NoConfigNameId,
		mdMsg: `
# No config name configured!

Neither ` + "`name`" + ` nor ` + "`config_name`" + ` is set, so liftoff cannot tell which file to look for.

## Things you can try
~~~cue
name: "hacker"
~~~`,
	}

	noExtensionsIssue = &Issue{
		id: NoExtensionsId,
		mdMsg: `
# No extensions configured!

The config file search needs at least one extension.

## Things you can try
~~~cue
extensions: {
	".json": []
	".yaml": ["yaml"]
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load a config file!

A config file or one of the files it ` + "`extends`" + ` could not be imported.
The merged result stops at the last file that loaded.

## Things you can try
- Run with ` + "`--verbose`" + ` to see every ` + "`config:failure`" + ` event
- Check the syntax of the file named in the event
- Make sure a loader is registered for its extension`,
	}

	extendsCycleIssue = &Issue{
		id: ExtendsCycleId,
		mdMsg: `
# Extends cycle detected!

A config file extends a file that is already part of the current chain.
liftoff skipped the repeated file and kept everything merged so far.

## Things you can try
- Remove one of the ` + "`extends`" + ` references forming the loop`,
	}

	loaderUnavailableIssue = &Issue{
		id: LoaderUnavailableId,
		mdMsg: `
# No loader could be registered!

Every loader candidate for this extension failed to register.

## Things you can try
- Check the ` + "`extensions`" + ` setting lists a loader liftoff knows
- For external loaders, make sure the program is on your PATH and executable`,
	}

	flagsResolutionFailedIssue = &Issue{
		id: FlagsResolutionFailedId,
		mdMsg: `
# Could not resolve the required runtime flags!

The required flags come from the ` + "`flags`" + ` setting and it could not be parsed.

## Things you can try
- Quote values with spaces: ` + "`flags: \"--max-old-space-size=4096 '--title=my tool'\"`" + ``,
	}

	respawnFailedIssue = &Issue{
		id: RespawnFailedId,
		mdMsg: `
# Failed to respawn the runtime!

liftoff needed to restart the runtime with extra flags but could not start it.

## Things you can try
- Check the runtime executable exists and is on your PATH
- Run ` + "`liftoff flags -- <argv>`" + ` to see the argument vector that was attempted`,
	}

	respawnLoopIssue = &Issue{
		id: RespawnLoopId,
		mdMsg: `
# Respawn loop detected!

The respawned process still lacks required flags, so it would respawn again.

## Things you can try
- Make sure the runtime accepts the configured flags as given
- Unset ` + "`LIFTOFF_RESPAWNED`" + ` if it leaked into your environment`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Preload module not found!

A module given with ` + "`--require`" + ` or ` + "`LIFTOFF_REQUIRE`" + ` is neither a registered
preload module nor an existing file.

## Things you can try
- Use a path relative to the working directory
- Use a built-in module such as ` + "`dotenv`" + ` or ` + "`dotenv:.env.local?`" + ``,
	}

	schemaValidationFailedIssue = &Issue{
		id: SchemaValidationFailedId,
		mdMsg: `
# Config does not match the schema!

The merged config failed JSON Schema validation.

## Things you can try
- Inspect the merged result with ` + "`liftoff configs <name>`" + `
- Remember that parents listed in ` + "`extends`" + ` contribute keys too`,
	}

	settingsInvalidIssue = &Issue{
		id: SettingsInvalidId,
		mdMsg: `
# Invalid liftoff settings!

The liftoff settings file does not match its schema.

## Things you can try
- Print the effective settings:
~~~
$ liftoff config show
~~~
- Recreate a default settings file with ` + "`liftoff config init`" + ``,
	}

	issues = map[Id]*Issue{
		configFileNotFoundIssue.Id():     configFileNotFoundIssue,
		noConfigNameIssue.Id():           noConfigNameIssue,
		noExtensionsIssue.Id():           noExtensionsIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		extendsCycleIssue.Id():           extendsCycleIssue,
		loaderUnavailableIssue.Id():      loaderUnavailableIssue,
		flagsResolutionFailedIssue.Id():  flagsResolutionFailedIssue,
		respawnFailedIssue.Id():          respawnFailedIssue,
		respawnLoopIssue.Id():            respawnLoopIssue,
		moduleNotFoundIssue.Id():         moduleNotFoundIssue,
		schemaValidationFailedIssue.Id(): schemaValidationFailedIssue,
		settingsInvalidIssue.Id():        settingsInvalidIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

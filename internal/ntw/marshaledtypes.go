package ntw

type topLevelManifest struct {
	Format string   `toml:"format" yaml:"format"`
	Type   string   `toml:"type" yaml:"type"`
	Files  []string `toml:"files" yaml:"files"`
}

// topLevelWorldData holds every key of a DATA file.
type topLevelWorldData struct {
	Format        string         `toml:"format" yaml:"format"`
	Type          string         `toml:"type" yaml:"type"`
	World         worldHeader    `toml:"world" yaml:"world"`
	Player        player         `toml:"player" yaml:"player"`
	Defaults      []attrDefault  `toml:"default" yaml:"default"`
	Rooms         []room         `toml:"room" yaml:"room"`
	Things        []thing        `toml:"thing" yaml:"thing"`
	Aliases       []alias        `toml:"alias" yaml:"alias"`
	Handlers      []handler      `toml:"handler" yaml:"handler"`
	GroupHandlers []groupHandler `toml:"group_handler" yaml:"group_handler"`
}

type worldHeader struct {
	Title     string   `toml:"title" yaml:"title"`
	Start     string   `toml:"start" yaml:"start"`
	Intro     string   `toml:"intro" yaml:"intro"`
	Verbosity string   `toml:"verbosity" yaml:"verbosity"`
	OnStart   []string `toml:"on_start" yaml:"on_start"`
}

type player struct {
	Names       []string               `toml:"names" yaml:"names"`
	Description string                 `toml:"description" yaml:"description"`
	Attrs       map[string]interface{} `toml:"attrs" yaml:"attrs"`
}

type attrDefault struct {
	Kind  string      `toml:"kind" yaml:"kind"`
	Attr  string      `toml:"attr" yaml:"attr"`
	Value interface{} `toml:"value" yaml:"value"`
}

type room struct {
	Label       string                 `toml:"label" yaml:"label"`
	Names       []string               `toml:"names" yaml:"names"`
	Description string                 `toml:"description" yaml:"description"`
	Exits       map[string]string      `toml:"exits" yaml:"exits"`
	Links       map[string]string      `toml:"links" yaml:"links"`
	Attrs       map[string]interface{} `toml:"attrs" yaml:"attrs"`
}

type thing struct {
	Label       string                 `toml:"label" yaml:"label"`
	Kind        string                 `toml:"kind" yaml:"kind"`
	Names       []string               `toml:"names" yaml:"names"`
	Description string                 `toml:"description" yaml:"description"`
	Location    string                 `toml:"location" yaml:"location"`
	Background  bool                   `toml:"background" yaml:"background"`
	Gettable    *bool                  `toml:"gettable" yaml:"gettable"`
	Mount       *mount                 `toml:"mount" yaml:"mount"`
	Attrs       map[string]interface{} `toml:"attrs" yaml:"attrs"`
}

type mount struct {
	Actions    []string `toml:"actions" yaml:"actions"`
	Reachable  []string `toml:"reachable" yaml:"reachable"`
	Sticky     bool     `toml:"sticky" yaml:"sticky"`
	StickyText string   `toml:"sticky_text" yaml:"sticky_text"`
	ExitText   string   `toml:"exit_text" yaml:"exit_text"`
}

type alias struct {
	Phrase string `toml:"phrase" yaml:"phrase"`
	Action string `toml:"action" yaml:"action"`
}

type handler struct {
	Actions []string `toml:"actions" yaml:"actions"`
	On      []string `toml:"on" yaml:"on"`
	Kinds   []string `toml:"kinds" yaml:"kinds"`
	Groups  []string `toml:"groups" yaml:"groups"`
	Meta    bool     `toml:"meta" yaml:"meta"`
	Limit   int      `toml:"limit" yaml:"limit"`
	Script  string   `toml:"script" yaml:"script"`
}

type groupHandler struct {
	Group  string   `toml:"group" yaml:"group"`
	On     []string `toml:"on" yaml:"on"`
	Kinds  []string `toml:"kinds" yaml:"kinds"`
	Limit  int      `toml:"limit" yaml:"limit"`
	Script string   `toml:"script" yaml:"script"`
}

// merge adds the contents of other to data. It is an error for both to name a
// start room or a title.
func (data *topLevelWorldData) merge(other topLevelWorldData) error {
	if other.World.Start != "" {
		if data.World.Start != "" {
			return errDuplicate("start", data.World.Start)
		}
		data.World.Start = other.World.Start
	}
	if other.World.Title != "" {
		if data.World.Title != "" {
			return errDuplicate("title", data.World.Title)
		}
		data.World.Title = other.World.Title
	}
	if other.World.Intro != "" {
		if data.World.Intro != "" {
			return errDuplicate("intro", data.World.Intro)
		}
		data.World.Intro = other.World.Intro
	}
	if other.World.Verbosity != "" {
		data.World.Verbosity = other.World.Verbosity
	}
	data.World.OnStart = append(data.World.OnStart, other.World.OnStart...)

	data.Player.Names = append(data.Player.Names, other.Player.Names...)
	if other.Player.Description != "" {
		data.Player.Description = other.Player.Description
	}
	if len(other.Player.Attrs) > 0 {
		if data.Player.Attrs == nil {
			data.Player.Attrs = make(map[string]interface{})
		}
		for k, v := range other.Player.Attrs {
			data.Player.Attrs[k] = v
		}
	}

	data.Defaults = append(data.Defaults, other.Defaults...)
	data.Rooms = append(data.Rooms, other.Rooms...)
	data.Things = append(data.Things, other.Things...)
	data.Aliases = append(data.Aliases, other.Aliases...)
	data.Handlers = append(data.Handlers, other.Handlers...)
	data.GroupHandlers = append(data.GroupHandlers, other.GroupHandlers...)
	return nil
}

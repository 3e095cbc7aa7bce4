package parser

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/tosparser/internal/testutil"
)

var (
	jobHeader = []string{
		"ClassID", "ClassName", "Name", "Caption1", "Icon", "EngName", "MaxCircle", "HiddenJob", "Rank",
		"CON", "DEX", "INT", "MNA", "STR", "PreFunction", "ControlDifficulty", "CtrlType", "ControlType",
	}
	statHeader      = []string{"ClassName", "CON", "DEX", "INT", "MNA", "STR"}
	skillTreeHeader = []string{"ClassName", "SkillName", "MaxLevel", "UnlockGrade", "LevelPerGrade"}
	skillHeader     = []string{"ClassID", "ClassName", "Name", "Caption", "Icon"}
	abilityHeader   = []string{"ClassID", "ClassName", "Name", "Desc", "Icon", "AlwaysActive", "SkillCategory"}
	jobAbilHeader   = []string{"ClassName", "UnlockDesc", "MaxLevel", "ScrCalcPrice", "UnlockScr", "UnlockArgStr", "UnlockArgNum"}
)

const priceScript = `
function SCR_ABIL_PRICE(self, name, lv, maxLv)
    return (lv - 1) * 5
end

function SCR_ABIL_FLAT(self, name, lv, maxLv)
    return 100
end
`

const unlockScript = `
function SCR_UNLOCK_LV(pc, strArg, numArg)
    if pc.Lv >= numArg then
        return "UNLOCK"
    end
    return "LOCK"
end
`

const renderedUnlock = "if (pc.Lv >= numArg) {\nreturn \"UNLOCK\";\n}\nreturn \"LOCK\";"

// world is a small but complete set of source tables: two Warrior jobs
// with attribute tables and a Cleric job without one.
func world() map[string]string {
	return map[string]string{
		"xml/job.ies": testutil.Table(jobHeader,
			[]string{"1001", "Char1_1", "@Swordsman", "@Swordsman_Desc", "c_warrior_swordsman", "Swordsman", "3", "NO", "1", "5", "4", "1", "1", "9", "", "쉬움", "Warrior", "공격"},
			[]string{"1002", "Char1_2", "@Highlander", "@Highlander_Desc", "C_Warrior_Highlander", "Highlander", "3", "YES", "2", "6", "3", "1", "1", "9", "SCR_HIDDEN", "보통", "Warrior", "공격,방어"},
			[]string{"4001", "Char4_1", "@Cleric", "", "c_cleric", "Cleric", "3", "YES", "1", "4", "2", "5", "8", "1", "", "", "Cleric", ""},
		),
		"xml/statbase_pc.ies": testutil.Table(statHeader,
			[]string{"", "0", "0", "0", "0", "0"},
			[]string{"Warrior", "10", "9", "8", "7", "11"},
			[]string{"Cleric", "5", "6", "10", "12", "4"},
		),
		"xml/skilltree.ies": testutil.Table(skillTreeHeader,
			[]string{"Char1_1_1", "Swordsman_Thrust", "15", "1", "5"},
			[]string{"Char1_1_2", "Swordsman_Discarded", "5", "1", "5"},
			[]string{"Char1_2_1", "Highlander_WagonWheel", "10", "2", "5"},
		),
		"xml/skill.ies": testutil.Table(skillHeader,
			[]string{"10001", "Swordsman_Thrust", "@Thrust", "@Thrust_Desc", "icon_warri_thrust"},
			[]string{"10002", "Highlander_WagonWheel", "@WagonWheel", "", "icon_warri_wagonwheel"},
			[]string{"40001", "Cleric_Heal", "@Heal", "", "icon_cler_heal"},
		),
		"xml/ability.ies": testutil.Table(abilityHeader,
			[]string{"101", "Swordsman_C", "@Swordsman_C", "@Swordsman_C_Desc ", "ability_warri_c", "NO", "All"},
			[]string{"102", "Swordsman_Thrust_Abil", "@Thrust_Abil", "", "ability_thrust", "YES", "Swordsman_Thrust"},
			[]string{"103", "Highlander_Orphan", "@Orphan", "", "", "YES", ""},
			[]string{"104", "Highlander_WagonWheel_Abil", "@WagonWheel_Abil", "", "", "YES", "Highlander_WagonWheel"},
		),
		"xml/ability/ability_Swordsman.ies": testutil.Table(jobAbilHeader,
			[]string{"Swordsman_C", "@Req_Swordsman", "3", "SCR_ABIL_PRICE", "SCR_UNLOCK_LV", "", "10"},
			[]string{"Swordsman_Thrust_Abil", "@Req_Thrust", "1", "SCR_ABIL_FLAT", "", "", ""},
		),
		"xml/ability/ability_Highlander.ies": testutil.Table(jobAbilHeader,
			[]string{"Swordsman_C", "@Req_Highlander", "3", "SCR_ABIL_PRICE", "SCR_UNLOCK_LV", "x", "20"},
		),
		"script/ability_price.lua":  priceScript,
		"script/ability_unlock.lua": unlockScript,
	}
}

func pathsIn(root string) Paths {
	return Paths{
		Jobs:             filepath.Join(root, "xml", "job.ies"),
		JobStats:         filepath.Join(root, "xml", "statbase_pc.ies"),
		SkillTree:        filepath.Join(root, "xml", "skilltree.ies"),
		Skills:           filepath.Join(root, "xml", "skill.ies"),
		Attributes:       filepath.Join(root, "xml", "ability.ies"),
		JobAttributesDir: filepath.Join(root, "xml", "ability"),
		AttributePrices:  filepath.Join(root, "script", "ability_price.lua"),
		AttributeUnlocks: filepath.Join(root, "script", "ability_unlock.lua"),
	}
}

// keyTranslator strips the "@" string table marker.
type keyTranslator struct{}

func (keyTranslator) Translate(key string) string { return strings.TrimPrefix(key, "@") }

type lowerIcons struct{}

func (lowerIcons) ParseEntityIcon(raw string) string { return strings.ToLower(raw) }

func newEnv(t *testing.T, files map[string]string) *Env {
	t.Helper()
	root := testutil.WriteFiles(t, files)
	return &Env{
		Paths:      pathsIn(root),
		Registries: NewRegistries(),
		Translator: keyTranslator{},
		Icons:      lowerIcons{},
	}
}

// runAll runs every phase in order and returns the first error.
func runAll(ctx context.Context, env *Env) error {
	jobs, attributes, skills := NewJobs(env), NewAttributes(env), NewSkills(env)
	for _, step := range []func(context.Context) error{
		jobs.ParsePrimary,
		jobs.ParseStats,
		attributes.ParsePrimary,
		skills.ParsePrimary,
		jobs.ParseLinks,
		attributes.ParseLinks,
		skills.ParseLinks,
		attributes.PruneInactive,
	} {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

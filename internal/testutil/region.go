package testutil

import "path"

// RegionFiles returns a small but complete client data set for region, laid
// out the way the built-in layout expects it under a working directory. Its
// one job, Char1_1, owns one job-wide attribute and one skill attribute.
func RegionFiles(region string) map[string]string {
	data := path.Join("input", region, "data")
	ies := path.Join(data, "ies.ipf")
	ability := path.Join(data, "ies_ability.ipf")
	scripts := path.Join(data, "script_client.ipf")

	return map[string]string{
		path.Join(ies, "job.ies"): Table(
			[]string{"ClassID", "ClassName", "Name", "Caption1", "Icon", "EngName", "MaxCircle", "HiddenJob", "Rank",
				"CON", "DEX", "INT", "MNA", "STR", "PreFunction", "ControlDifficulty", "CtrlType", "ControlType"},
			[]string{"1001", "Char1_1", "@Swordsman", "", "C_Warrior_Swordsman", "Swordsman", "3", "NO", "1", "5", "4", "1", "1", "9", "", "쉬움", "Warrior", "공격"},
		),
		path.Join(ies, "statbase_pc.ies"): Table([]string{"ClassName", "CON", "DEX", "INT", "MNA", "STR"},
			[]string{"Warrior", "10", "9", "8", "7", "11"},
		),
		path.Join(ies, "skilltree.ies"): Table([]string{"ClassName", "SkillName", "MaxLevel", "UnlockGrade", "LevelPerGrade"},
			[]string{"Char1_1_1", "Swordsman_Thrust", "15", "1", "5"},
		),
		path.Join(ies, "skill.ies"): Table([]string{"ClassID", "ClassName", "Name", "Caption", "Icon"},
			[]string{"10001", "Swordsman_Thrust", "@Thrust", "", "icon_warri_thrust"},
		),
		path.Join(ability, "ability.ies"): Table([]string{"ClassID", "ClassName", "Name", "Desc", "Icon", "AlwaysActive", "SkillCategory"},
			[]string{"101", "Swordsman_C", "@Swordsman_C", "", "", "NO", "All"},
			[]string{"102", "Swordsman_Thrust_Abil", "@Thrust_Abil", "", "", "YES", "Swordsman_Thrust"},
		),
		path.Join(ability, "ability_Swordsman.ies"): Table([]string{"ClassName", "UnlockDesc", "MaxLevel", "ScrCalcPrice", "UnlockScr", "UnlockArgStr", "UnlockArgNum"},
			[]string{"Swordsman_C", "", "3", "SCR_ABIL_PRICE", "SCR_UNLOCK_LV", "", "10"},
			[]string{"Swordsman_Thrust_Abil", "", "1", "SCR_ABIL_PRICE", "", "", ""},
		),
		path.Join(scripts, "ability_price.lua"): "function SCR_ABIL_PRICE(self, name, lv, maxLv)\n    return lv * 5\nend\n",
		path.Join(scripts, "ability_unlock.lua"): "function SCR_UNLOCK_LV(pc, strArg, numArg)\n" +
			"    if pc.Lv >= numArg then\n        return \"UNLOCK\"\n    end\n    return \"LOCK\"\nend\n",
	}
}

package spawn

// DefaultScaling is the linear stat curve used when content does not override it.
func DefaultScaling() Scaling {
	return Scaling{
		HealthBase: 50, HealthPerLevel: 10,
		AttackBase: 10, AttackPerLevel: 2,
		DefenseBase: 5, DefensePerLevel: 1,
	}
}

// DefaultTables returns the built-in East Blue, Grand Line and New World tiers.
func DefaultTables() Tables {
	return Tables{
		Scaling: DefaultScaling(),
		Regions: []Region{
			{
				ID: "east_blue", Name: "East Blue", MinLevel: 1, MaxLevel: 20,
				Templates: []Template{
					{
						ID: "marine_recruit", Name: "Marine Recruit", Type: "marine", Weight: 3,
						Description: "A nervous recruit clutching a standard-issue saber.",
						Health:      Jitter{90, 110}, Attack: Jitter{80, 100}, Defense: Jitter{90, 110},
					},
					{
						ID: "bandit", Name: "Mountain Bandit", Type: "bandit", Weight: 3,
						Description: "A loud brute who robs travelers on the road to town.",
						Health:      Jitter{100, 120}, Attack: Jitter{90, 110}, Defense: Jitter{70, 90},
					},
					{
						ID: "fishman_thug", Name: "Fishman Thug", Type: "fishman", Weight: 1, MinLevel: 8,
						Description: "Ten times stronger than a human, and he knows it.",
						Health:      Jitter{110, 130}, Attack: Jitter{100, 120}, Defense: Jitter{100, 120},
					},
				},
			},
			{
				ID: "grand_line", Name: "Grand Line", MinLevel: 21, MaxLevel: 50,
				Templates: []Template{
					{
						ID: "bounty_hunter", Name: "Baroque Agent", Type: "agent", Weight: 3,
						Description: "A numbered agent of a secret crime syndicate.",
						Health:      Jitter{90, 110}, Attack: Jitter{100, 120}, Defense: Jitter{90, 110},
					},
					{
						ID: "sky_knight", Name: "Sky Knight", Type: "skypiean", Weight: 2,
						Description: "A lance-wielding guardian riding a giant bird.",
						Health:      Jitter{80, 100}, Attack: Jitter{110, 130}, Defense: Jitter{80, 100},
					},
					{
						ID: "cp_agent", Name: "Cipher Pol Agent", Type: "government", Weight: 1, MinLevel: 35,
						Description: "Trained in the Six Powers since childhood.",
						Health:      Jitter{100, 120}, Attack: Jitter{110, 130}, Defense: Jitter{110, 130},
					},
				},
			},
			{
				ID: "new_world", Name: "New World", MinLevel: 51, MaxLevel: 100,
				Templates: []Template{
					{
						ID: "beast_pirate", Name: "Beast Pirate Gifter", Type: "pirate", Weight: 3,
						Description: "An artificial fruit user with a mismatched animal limb.",
						Health:      Jitter{100, 120}, Attack: Jitter{100, 120}, Defense: Jitter{90, 110},
					},
					{
						ID: "vice_admiral", Name: "Vice Admiral", Type: "marine", Weight: 1, MinLevel: 70,
						Description: "A veteran officer whose fists break cannonballs.",
						Health:      Jitter{120, 140}, Attack: Jitter{110, 130}, Defense: Jitter{120, 140},
					},
				},
			},
		},
	}
}

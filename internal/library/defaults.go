package library

// defaultExercises is the built-in catalog. Landmark names match the
// analysis package vocabulary.
func defaultExercises() []Exercise {
	return []Exercise{
		{
			Name:        "push_ups",
			Category:    "upper_body",
			Description: "Classic upper body exercise targeting chest, triceps, and shoulders",
			Instructions: []string{
				"Start in a plank position with hands shoulder-width apart",
				"Lower your body until your chest nearly touches the ground",
				"Keep your body in a straight line from head to heels",
				"Push back up to the starting position",
				"Repeat for desired number of repetitions",
			},
			TargetMuscles:   []string{"chest", "triceps", "shoulders", "core"},
			DifficultyLevel: "beginner",
			EquipmentNeeded: []string{},
			KeyLandmarks: []string{
				"left_shoulder", "right_shoulder",
				"left_elbow", "right_elbow",
				"left_wrist", "right_wrist",
				"left_hip", "right_hip",
			},
		},
		{
			Name:        "squats",
			Category:    "lower_body",
			Description: "Fundamental lower body exercise targeting quadriceps, glutes, and hamstrings",
			Instructions: []string{
				"Stand with feet shoulder-width apart",
				"Lower your body by bending at the hips and knees",
				"Keep your chest up and back straight",
				"Descend until thighs are parallel to the ground",
				"Push through your heels to return to starting position",
			},
			TargetMuscles:   []string{"quadriceps", "glutes", "hamstrings", "calves"},
			DifficultyLevel: "beginner",
			EquipmentNeeded: []string{},
			KeyLandmarks: []string{
				"left_hip", "right_hip",
				"left_knee", "right_knee",
				"left_ankle", "right_ankle",
				"left_shoulder", "right_shoulder",
			},
		},
		{
			Name:        "bicep_curls",
			Category:    "upper_body",
			Description: "Isolation exercise targeting the biceps muscles",
			Instructions: []string{
				"Stand with feet shoulder-width apart",
				"Hold weights with arms at your sides",
				"Keep elbows close to your torso",
				"Curl the weights up by contracting your biceps",
				"Lower the weights back to starting position with control",
			},
			TargetMuscles:   []string{"biceps", "forearms"},
			DifficultyLevel: "beginner",
			EquipmentNeeded: []string{"dumbbells"},
			KeyLandmarks: []string{
				"right_shoulder", "right_elbow", "right_wrist",
				"left_shoulder", "left_elbow", "left_wrist",
			},
		},
		{
			Name:        "lunges",
			Category:    "lower_body",
			Description: "Unilateral lower body exercise for leg strength and balance",
			Instructions: []string{
				"Stand with feet hip-width apart",
				"Step forward with one leg",
				"Lower your hips until both knees are bent at 90 degrees",
				"Keep your front knee over your ankle",
				"Push back to starting position and repeat",
			},
			TargetMuscles:   []string{"quadriceps", "glutes", "hamstrings", "calves"},
			DifficultyLevel: "intermediate",
			EquipmentNeeded: []string{},
			KeyLandmarks: []string{
				"left_hip", "right_hip",
				"left_knee", "right_knee",
				"left_ankle", "right_ankle",
			},
		},
		{
			Name:        "planks",
			Category:    "core",
			Description: "Isometric core strengthening exercise",
			Instructions: []string{
				"Start in a push-up position",
				"Lower onto your forearms",
				"Keep your body in a straight line",
				"Engage your core muscles",
				"Hold the position for desired duration",
			},
			TargetMuscles:   []string{"core", "shoulders", "glutes"},
			DifficultyLevel: "beginner",
			EquipmentNeeded: []string{},
			KeyLandmarks: []string{
				"left_shoulder", "right_shoulder",
				"left_hip", "right_hip",
				"left_ankle", "right_ankle",
			},
		},
	}
}

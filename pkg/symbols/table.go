package symbols

// DefaultTable returns the built-in glyph→LaTeX substitution table for
// Greek letters and common math operators.
func DefaultTable() []Replacement {
	return []Replacement{
		// Greek letters
		{From: "α", To: `\alpha`},
		{From: "β", To: `\beta`},
		{From: "γ", To: `\gamma`},
		{From: "δ", To: `\delta`},
		{From: "Δ", To: `\Delta`},
		{From: "ε", To: `\epsilon`},
		{From: "θ", To: `\theta`},
		{From: "λ", To: `\lambda`},
		{From: "μ", To: `\mu`},
		{From: "π", To: `\pi`},
		{From: "σ", To: `\sigma`},
		{From: "Σ", To: `\Sigma`},
		{From: "φ", To: `\phi`},
		{From: "ω", To: `\omega`},
		{From: "Ω", To: `\Omega`},

		// Math operators
		{From: "≤", To: `\leq`},
		{From: "≥", To: `\geq`},
		{From: "≠", To: `\neq`},
		{From: "≈", To: `\approx`},
		{From: "∞", To: `\infty`},
		{From: "√", To: `\sqrt`},
		{From: "∑", To: `\sum`},
		{From: "∫", To: `\int`},
		{From: "∂", To: `\partial`},
		{From: "∇", To: `\nabla`},
		{From: "×", To: `\times`},
		{From: "÷", To: `\div`},
		{From: "±", To: `\pm`},
		{From: "∈", To: `\in`},
		{From: "⊂", To: `\subset`},
		{From: "∪", To: `\cup`},
		{From: "∩", To: `\cap`},
	}
}

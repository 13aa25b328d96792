package pack

import "context"

const (
	// TblRounds holds one row per search round: the inflated radius the
	// round bisected to, whether it was feasible, and the best radius so far.
	TblRounds = "packrounds"
	// TblCircles holds the circles of every packing that improved on the
	// best radius.
	TblCircles = "packcircles"
)

func (s *Searcher) initdb(ctx context.Context) error {
	if s.Db == nil {
		return nil
	}

	s1 := "CREATE TABLE IF NOT EXISTS " + TblRounds + " (run TEXT,round INTEGER,radius REAL,feasible INTEGER,improved INTEGER,best REAL);"
	if _, err := s.Db.ExecContext(ctx, s1); err != nil {
		return err
	}
	s2 := "CREATE TABLE IF NOT EXISTS " + TblCircles + " (run TEXT,round INTEGER,idx INTEGER,radius REAL,x REAL,y REAL);"
	_, err := s.Db.ExecContext(ctx, s2)
	return err
}

func boolint(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Searcher) updateDb(ctx context.Context, round int, radius float64, feasible, improved bool, best Packing) error {
	if s.Db == nil {
		return nil
	}

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	s1 := "INSERT INTO " + TblRounds + " (run,round,radius,feasible,improved,best) VALUES (?,?,?,?,?,?);"
	_, err = tx.ExecContext(ctx, s1, s.RunID, round, radius, boolint(feasible), boolint(improved), best.Radius)
	if err != nil {
		return err
	}

	if improved {
		s2 := "INSERT INTO " + TblCircles + " (run,round,idx,radius,x,y) VALUES (?,?,?,?,?,?);"
		for i, c := range best.Circles {
			p, _ := c.Center()
			if _, err := tx.ExecContext(ctx, s2, s.RunID, round, i, c.Radius, p.X, p.Y); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

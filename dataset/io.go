package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	ratingsHeader = []string{"userId", "movieId", "rating", "timestamp"}
	tagsHeader    = []string{"userId", "movieId", "tag", "timestamp"}
	moviesHeader  = []string{"movieId", "title", "genres", "year"}
	genomeHeader  = []string{"movieId", "tagId", "relevance", "tag"}
)

func tablePath(dir, name, table string) string {
	return filepath.Join(dir, name+"_"+table+".csv")
}

// SaveDatagroup 把 dg 的四张表写为 dir/<name>_{ratings,tags,movies,genome}.csv。
// 电影的 genres 以 '|' 拼接；空的 genres 与 nil 写出相同，读回均为 nil。
func SaveDatagroup(dir string, dg *Datagroup, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		return writeCSV(tablePath(dir, name, "ratings"), ratingsHeader, len(dg.Ratings), func(i int) []string {
			r := dg.Ratings[i]
			return []string{formatID(r.UserID), formatID(r.MovieID), formatFloat(r.Rating), strconv.FormatInt(r.Timestamp, 10)}
		})
	})
	g.Go(func() error {
		return writeCSV(tablePath(dir, name, "tags"), tagsHeader, len(dg.Tags), func(i int) []string {
			t := dg.Tags[i]
			return []string{formatID(t.UserID), formatID(t.MovieID), t.Tag, strconv.FormatInt(t.Timestamp, 10)}
		})
	})
	g.Go(func() error {
		return writeCSV(tablePath(dir, name, "movies"), moviesHeader, len(dg.Movies), func(i int) []string {
			m := dg.Movies[i]
			return []string{formatID(m.MovieID), m.Title, strings.Join(m.Genres, genreSep), strconv.Itoa(m.Year)}
		})
	})
	g.Go(func() error {
		return writeCSV(tablePath(dir, name, "genome"), genomeHeader, len(dg.Genome), func(i int) []string {
			s := dg.Genome[i]
			return []string{formatID(s.MovieID), strconv.FormatUint(uint64(s.TagID), 10), formatFloat(s.Relevance), s.Tag}
		})
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("save datagroup %s: %w", name, err)
	}
	return nil
}

// LoadDatagroup 读取 SaveDatagroup 写出的四张表。
func LoadDatagroup(dir, name string) (*Datagroup, error) {
	dg := &Datagroup{
		Ratings: make([]Rating, 0),
		Tags:    make([]Tag, 0),
		Movies:  make([]Movie, 0),
		Genome:  make([]GenomeScore, 0),
	}

	var g errgroup.Group
	g.Go(func() error {
		return readCSV(tablePath(dir, name, "ratings"), ratingsHeader, func(rec []string) error {
			r, err := parseRating(rec)
			if err != nil {
				return err
			}
			dg.Ratings = append(dg.Ratings, r)
			return nil
		})
	})
	g.Go(func() error {
		return readCSV(tablePath(dir, name, "tags"), tagsHeader, func(rec []string) error {
			t, err := parseTag(rec)
			if err != nil {
				return err
			}
			dg.Tags = append(dg.Tags, t)
			return nil
		})
	})
	g.Go(func() error {
		return readCSV(tablePath(dir, name, "movies"), moviesHeader, func(rec []string) error {
			id, err := parseID(rec[0])
			if err != nil {
				return err
			}
			year, err := strconv.Atoi(rec[3])
			if err != nil {
				return fmt.Errorf("parse year %q: %w", rec[3], err)
			}
			dg.Movies = append(dg.Movies, Movie{MovieID: id, Title: rec[1], Genres: splitGenres(rec[2]), Year: year})
			return nil
		})
	})
	g.Go(func() error {
		return readCSV(tablePath(dir, name, "genome"), genomeHeader, func(rec []string) error {
			movieID, err := parseID(rec[0])
			if err != nil {
				return err
			}
			tagID, err := parseID(rec[1])
			if err != nil {
				return err
			}
			rel, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return fmt.Errorf("parse relevance %q: %w", rec[2], err)
			}
			dg.Genome = append(dg.Genome, GenomeScore{MovieID: movieID, TagID: uint32(tagID), Relevance: rel, Tag: rec[3]})
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load datagroup %s: %w", name, err)
	}
	return dg, nil
}

var titleYear = regexp.MustCompile(`\((\d{4})\)\s*$`)

// LoadMovieLens 读取原始 MovieLens 目录：ratings.csv、tags.csv、movies.csv，
// 以及可选的 genome-scores.csv + genome-tags.csv。上映年份从标题末尾的 "(1995)" 解析。
func LoadMovieLens(dir string) (*Datagroup, error) {
	dg := &Datagroup{
		Ratings: make([]Rating, 0),
		Tags:    make([]Tag, 0),
		Movies:  make([]Movie, 0),
		Genome:  make([]GenomeScore, 0),
	}

	var g errgroup.Group
	g.Go(func() error {
		return readCSV(filepath.Join(dir, "ratings.csv"), ratingsHeader, func(rec []string) error {
			r, err := parseRating(rec)
			if err != nil {
				return err
			}
			dg.Ratings = append(dg.Ratings, r)
			return nil
		})
	})
	g.Go(func() error {
		return readCSV(filepath.Join(dir, "tags.csv"), tagsHeader, func(rec []string) error {
			t, err := parseTag(rec)
			if err != nil {
				return err
			}
			dg.Tags = append(dg.Tags, t)
			return nil
		})
	})
	g.Go(func() error {
		return readCSV(filepath.Join(dir, "movies.csv"), []string{"movieId", "title", "genres"}, func(rec []string) error {
			id, err := parseID(rec[0])
			if err != nil {
				return err
			}
			m := Movie{MovieID: id, Title: rec[1], Genres: splitMovieLensGenres(rec[2])}
			if match := titleYear.FindStringSubmatch(rec[1]); match != nil {
				m.Year, _ = strconv.Atoi(match[1])
			}
			dg.Movies = append(dg.Movies, m)
			return nil
		})
	})
	g.Go(func() error {
		genome, err := loadGenome(dir)
		if err != nil {
			return err
		}
		dg.Genome = genome
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load movielens %s: %w", dir, err)
	}
	return dg, nil
}

func loadGenome(dir string) ([]GenomeScore, error) {
	scoresPath := filepath.Join(dir, "genome-scores.csv")
	if _, err := os.Stat(scoresPath); os.IsNotExist(err) {
		return make([]GenomeScore, 0), nil
	}

	tags := make(map[uint32]string)
	err := readCSV(filepath.Join(dir, "genome-tags.csv"), []string{"tagId", "tag"}, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		tags[uint32(id)] = rec[1]
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]GenomeScore, 0)
	err = readCSV(scoresPath, []string{"movieId", "tagId", "relevance"}, func(rec []string) error {
		movieID, err := parseID(rec[0])
		if err != nil {
			return err
		}
		tagID, err := parseID(rec[1])
		if err != nil {
			return err
		}
		rel, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("parse relevance %q: %w", rec[2], err)
		}
		out = append(out, GenomeScore{MovieID: movieID, TagID: uint32(tagID), Relevance: rel, Tag: tags[uint32(tagID)]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseRating(rec []string) (Rating, error) {
	user, err := parseID(rec[0])
	if err != nil {
		return Rating{}, err
	}
	movie, err := parseID(rec[1])
	if err != nil {
		return Rating{}, err
	}
	rating, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return Rating{}, fmt.Errorf("parse rating %q: %w", rec[2], err)
	}
	ts, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return Rating{}, fmt.Errorf("parse timestamp %q: %w", rec[3], err)
	}
	return Rating{UserID: user, MovieID: movie, Rating: rating, Timestamp: ts}, nil
}

func parseTag(rec []string) (Tag, error) {
	user, err := parseID(rec[0])
	if err != nil {
		return Tag{}, err
	}
	movie, err := parseID(rec[1])
	if err != nil {
		return Tag{}, err
	}
	ts, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return Tag{}, fmt.Errorf("parse timestamp %q: %w", rec[3], err)
	}
	return Tag{UserID: user, MovieID: movie, Tag: rec[2], Timestamp: ts}, nil
}
